package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"recycleways/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: message}, statusCode)
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	writeJSON(w, data, statusCode)
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// statusFor maps an application error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case models.CodeUnauthorized:
		return http.StatusUnauthorized
	case models.CodeForbidden:
		return http.StatusForbidden
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError reports err to the client. Unclassified errors are logged
// and hidden behind a generic message.
func writeAppError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := statusFor(appErr.Code)
		if status == http.StatusInternalServerError {
			logger.Error().Err(err).Msg("request failed")
		}
		writeJSON(w, ErrorResponse{Error: appErr.Message, Code: appErr.Code}, status)
		return
	}

	logger.Error().Err(err).Msg("request failed")
	WriteError(w, "internal server error", http.StatusInternalServerError)
}
