package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"recycleways/internal/models"
)

type SessionResponse struct {
	Token string       `json:"token,omitempty"`
	User  *models.User `json:"user"`
	Admin bool         `json:"is_admin"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.Auth.Login(r.Context(), creds)
	if err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	writeSuccess(w, SessionResponse{Token: token, User: user, Admin: user.IsAdmin()}, http.StatusOK)
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var input models.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.Auth.Signup(r.Context(), input)
	if err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	writeSuccess(w, SessionResponse{Token: token, User: user, Admin: user.IsAdmin()}, http.StatusCreated)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Auth.Logout(r.Context())
	writeSuccess(w, map[string]string{"message": "signed out"}, http.StatusOK)
}

// GetSession returns the signed-in user. When nobody is signed in, a
// "Bearer <token>" Authorization header restores the session.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	if user := h.Session.CurrentUser(); user != nil {
		writeSuccess(w, SessionResponse{Token: h.Session.Token(), User: user, Admin: user.IsAdmin()}, http.StatusOK)
		return
	}

	token, ok := bearerToken(r)
	if !ok {
		writeAppError(w, h.Logger, models.ErrAuthRequired)
		return
	}

	user, err := h.Auth.Restore(r.Context(), token)
	if err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	writeSuccess(w, SessionResponse{Token: token, User: user, Admin: user.IsAdmin()}, http.StatusOK)
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
