package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var _ LikeRepository = (*LikeRepositoryImpl)(nil)

type LikeRepositoryImpl struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) *LikeRepositoryImpl {
	return &LikeRepositoryImpl{db: db}
}

func (r *LikeRepositoryImpl) InsertLike(ctx context.Context, userID, postID string) error {
	// one row per (user, post); a repeated like is a no-op
	query := `
		INSERT INTO likes (user_id, post_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, post_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("could not like post: %w", err)
	}

	return nil
}

func (r *LikeRepositoryImpl) DeleteLike(ctx context.Context, userID, postID string) error {
	query := `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("could not unlike post: %w", err)
	}

	return nil
}
