package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"recycleways/internal/models"
)

var _ RatingRepository = (*RatingRepositoryImpl)(nil)

type RatingRepositoryImpl struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepositoryImpl {
	return &RatingRepositoryImpl{db: db}
}

// UpsertRating inserts the rating or, when the user already rated the post,
// replaces its star and comment.
func (r *RatingRepositoryImpl) UpsertRating(ctx context.Context, row models.RatingRow) error {
	query := `
		INSERT INTO ratings (user_id, post_id, star, comment, created_at)
		VALUES (:user_id, :post_id, :star, :comment, :created_at)
		ON CONFLICT (user_id, post_id) DO UPDATE SET
			star = EXCLUDED.star,
			comment = EXCLUDED.comment
	`

	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("could not save rating: %w", err)
	}

	return nil
}

func (r *RatingRepositoryImpl) DeleteRating(ctx context.Context, userID, postID string) error {
	query := `DELETE FROM ratings WHERE user_id = $1 AND post_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, postID)
	if err != nil {
		return fmt.Errorf("could not delete rating: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.NewNotFoundError("rating", postID)
	}

	return nil
}
