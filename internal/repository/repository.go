package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"recycleways/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
}

type PostRepository interface {
	ListPosts(ctx context.Context) ([]models.PostRow, error)
	InsertPost(ctx context.Context, row models.NewPostRow) (*models.PostRow, error)
	UpdatePost(ctx context.Context, postID string, upd models.PostUpdate) (*models.PostRow, error)
	UpdatePostStatus(ctx context.Context, postID string, status models.Status) (models.Status, error)
	DeletePost(ctx context.Context, postID string) error
}

type LikeRepository interface {
	InsertLike(ctx context.Context, userID, postID string) error
	DeleteLike(ctx context.Context, userID, postID string) error
}

type RatingRepository interface {
	UpsertRating(ctx context.Context, row models.RatingRow) error
	DeleteRating(ctx context.Context, userID, postID string) error
}

// Gateway exposes posts, likes and ratings through a single value.
type Gateway struct {
	*PostRepositoryImpl
	*LikeRepositoryImpl
	*RatingRepositoryImpl
}

type Repository struct {
	User    UserRepository
	Gateway *Gateway
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User: NewUserRepository(db),
		Gateway: &Gateway{
			PostRepositoryImpl:   NewPostRepository(db),
			LikeRepositoryImpl:   NewLikeRepository(db),
			RatingRepositoryImpl: NewRatingRepository(db),
		},
	}
}
