package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"recycleways/internal/config"
	"recycleways/internal/models"
	"recycleways/internal/service"
	"recycleways/internal/storage"
)

// PostStore is the part of the post synchronization store exposed over HTTP.
type PostStore interface {
	FetchPosts(ctx context.Context) error
	Posts() []models.Post
	PostsByStatus(status models.Status) []models.Post
	PostsByAuthor(authorID string) []models.Post
	FindPost(postID string) (models.Post, bool)
	Loading() bool

	CreatePost(ctx context.Context, input models.PostInput) (models.Post, error)
	UpdatePost(ctx context.Context, postID string, input models.PostInput) (models.Post, error)
	DeletePost(ctx context.Context, postID string) error

	ToggleLike(ctx context.Context, postID string) error
	UpdatePostRating(ctx context.Context, postID string, star int, comment string) error
	DeleteRating(ctx context.Context, postID string) error
	UpdatePostStatus(ctx context.Context, postID string, status models.Status) error
}

// Session exposes the signed-in user.
type Session interface {
	CurrentUser() *models.User
	IsAdmin() bool
	Token() string
}

type Handlers struct {
	Posts    PostStore
	Auth     service.AuthService
	Session  Session
	Images   storage.Storage
	Cfg      *config.Config
	Validate *validator.Validate
	Logger   zerolog.Logger
}

func NewHandlers(posts PostStore, services *service.Service, session Session, images storage.Storage, cfg *config.Config, logger zerolog.Logger) *Handlers {
	return &Handlers{
		Posts:    posts,
		Auth:     services.Auth,
		Session:  session,
		Images:   images,
		Cfg:      cfg,
		Validate: validator.New(),
		Logger:   logger,
	}
}

func (h *Handlers) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/session", h.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/session", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/session/signup", h.Signup).Methods(http.MethodPost)
	api.HandleFunc("/session", h.Logout).Methods(http.MethodDelete)

	api.HandleFunc("/posts", h.GetPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/posts/refresh", h.RefreshPosts).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}", h.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", h.UpdatePost).Methods(http.MethodPut)
	api.HandleFunc("/posts/{id}", h.DeletePost).Methods(http.MethodDelete)

	api.HandleFunc("/posts/{id}/like", h.ToggleLike).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/rating", h.RatePost).Methods(http.MethodPut)
	api.HandleFunc("/posts/{id}/rating", h.DeleteRating).Methods(http.MethodDelete)
	api.HandleFunc("/posts/{id}/status", h.UpdatePostStatus).Methods(http.MethodPatch)

	api.HandleFunc("/images", h.UploadImage).Methods(http.MethodPost)

	return r
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
