package handlers

import (
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"

	"recycleways/internal/models"
)

type ImageResponse struct {
	ImageURL string `json:"image_url"`
	FileSize int64  `json:"file_size"`
}

// UploadImage stores the multipart "image" field and returns its public
// URL, to be used as a post's image_url.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.Session.CurrentUser() == nil {
		writeAppError(w, h.Logger, models.ErrAuthRequired)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, fmt.Sprintf("file is too large or malformed, the limit is %s",
			humanize.Bytes(uint64(h.Cfg.MaxUploadSize))), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "image field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageURL, err := h.Images.UploadImage(r.Context(), file, header.Size)
	if err != nil {
		writeAppError(w, h.Logger, err)
		return
	}

	writeSuccess(w, ImageResponse{ImageURL: imageURL, FileSize: header.Size}, http.StatusCreated)
}
