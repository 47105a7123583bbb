package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"recycleways/internal/models"
)

type PostsResponse struct {
	Posts   []models.Post `json:"posts"`
	Loading bool          `json:"loading"`
}

type RatingRequest struct {
	Star    int    `json:"star" validate:"min=1,max=5"`
	Comment string `json:"comment"`
}

type StatusRequest struct {
	Status models.Status `json:"status" validate:"required"`
}

// GetPosts lists the local posts, optionally filtered by ?status= or
// ?author=.
func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	var posts []models.Post
	switch q := r.URL.Query(); {
	case q.Get("status") != "":
		posts = h.Posts.PostsByStatus(models.Status(q.Get("status")))
	case q.Get("author") != "":
		posts = h.Posts.PostsByAuthor(q.Get("author"))
	default:
		posts = h.Posts.Posts()
	}

	writeSuccess(w, PostsResponse{Posts: posts, Loading: h.Posts.Loading()}, http.StatusOK)
}

func (h *Handlers) RefreshPosts(w http.ResponseWriter, r *http.Request) {
	if err := h.Posts.FetchPosts(r.Context()); err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	writeSuccess(w, PostsResponse{Posts: h.Posts.Posts(), Loading: h.Posts.Loading()}, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, ok := h.Posts.FindPost(postID)
	if !ok {
		writeAppError(w, h.Logger, models.NewNotFoundError("post", postID))
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.Posts.CreatePost(r.Context(), input)
	if err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	var input models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.requireOwnerOrAdmin(postID); err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	post, err := h.Posts.UpdatePost(r.Context(), postID, input)
	if err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if err := h.requireOwnerOrAdmin(postID); err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	if err := h.Posts.DeletePost(r.Context(), postID); err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "post deleted"}, http.StatusOK)
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if err := h.Posts.ToggleLike(r.Context(), postID); err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	h.writePost(w, postID)
}

func (h *Handlers) RatePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "star must be between 1 and 5", http.StatusBadRequest)
		return
	}

	if err := h.Posts.UpdatePostRating(r.Context(), postID, req.Star, req.Comment); err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	h.writePost(w, postID)
}

func (h *Handlers) DeleteRating(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if err := h.Posts.DeleteRating(r.Context(), postID); err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	h.writePost(w, postID)
}

// UpdatePostStatus is the moderation endpoint; only admins may call it.
func (h *Handlers) UpdatePostStatus(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if h.Session.CurrentUser() == nil {
		writeAppError(w, h.Logger, models.ErrAuthRequired)
		return
	}
	if !h.Session.IsAdmin() {
		writeAppError(w, h.Logger, models.ErrForbidden)
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "status is required", http.StatusBadRequest)
		return
	}

	if err := h.Posts.UpdatePostStatus(r.Context(), postID, req.Status); err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	h.writePost(w, postID)
}

func (h *Handlers) writePost(w http.ResponseWriter, postID string) {
	post, ok := h.Posts.FindPost(postID)
	if !ok {
		writeSuccess(w, map[string]string{"message": "ok"}, http.StatusOK)
		return
	}
	writeSuccess(w, post, http.StatusOK)
}

// requireOwnerOrAdmin rejects edits of a post by anyone but its author or
// an admin. Unknown posts are left for the store to report.
func (h *Handlers) requireOwnerOrAdmin(postID string) error {
	user := h.Session.CurrentUser()
	if user == nil {
		return models.ErrAuthRequired
	}

	post, ok := h.Posts.FindPost(postID)
	if !ok || post.AuthorID == user.ID || user.IsAdmin() {
		return nil
	}
	return models.ErrForbidden
}
