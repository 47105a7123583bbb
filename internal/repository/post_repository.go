package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"recycleways/internal/models"
)

var _ PostRepository = (*PostRepositoryImpl)(nil)

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

type postRecord struct {
	PostID      string         `db:"post_id"`
	AuthorID    string         `db:"author_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Procedure   string         `db:"procedure"`
	ImageURL    string         `db:"image_url"`
	Ingredients pq.StringArray `db:"ingredients"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	AuthorName  sql.NullString `db:"author_name"`
}

func (rec postRecord) toRow() models.PostRow {
	row := models.PostRow{
		ID:          rec.PostID,
		AuthorID:    rec.AuthorID,
		Title:       rec.Title,
		Description: rec.Description,
		Procedure:   rec.Procedure,
		ImageURL:    rec.ImageURL,
		Ingredients: []string(rec.Ingredients),
		Status:      models.Status(rec.Status),
		CreatedAt:   rec.CreatedAt,
	}
	if rec.AuthorName.Valid {
		row.Author = &models.AuthorRow{Name: rec.AuthorName.String}
	}
	return row
}

const postColumns = `post_id, author_id, title, description, procedure, image_url, ingredients, status, created_at`

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

// ListPosts returns every post, newest first, with its like rows, rating
// rows and the author's display name attached.
func (r *PostRepositoryImpl) ListPosts(ctx context.Context) ([]models.PostRow, error) {
	query := `
		SELECT p.post_id, p.author_id, p.title, p.description, p.procedure, p.image_url,
		       p.ingredients, p.status, p.created_at, u.name AS author_name
		FROM recycle_post p
		LEFT JOIN users u ON u.user_id = p.author_id
		ORDER BY p.created_at DESC
	`

	var records []postRecord
	if err := r.DB.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("could not list posts: %w", err)
	}

	rows := make([]models.PostRow, 0, len(records))
	if len(records) == 0 {
		return rows, nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.PostID)
	}

	var likes []models.LikeRow
	err := r.DB.SelectContext(ctx, &likes,
		`SELECT user_id, post_id FROM likes WHERE post_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("could not list likes: %w", err)
	}

	var ratings []models.RatingRow
	err = r.DB.SelectContext(ctx, &ratings, `
		SELECT r.user_id, r.post_id, r.star, r.comment, r.created_at, COALESCE(u.name, '') AS author_name
		FROM ratings r
		LEFT JOIN users u ON u.user_id = r.user_id
		WHERE r.post_id = ANY($1)
		ORDER BY r.created_at
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("could not list ratings: %w", err)
	}

	likesByPost := make(map[string][]models.LikeRow)
	for _, like := range likes {
		likesByPost[like.PostID] = append(likesByPost[like.PostID], like)
	}
	ratingsByPost := make(map[string][]models.RatingRow)
	for _, rating := range ratings {
		ratingsByPost[rating.PostID] = append(ratingsByPost[rating.PostID], rating)
	}

	for _, rec := range records {
		row := rec.toRow()
		row.Likes = likesByPost[rec.PostID]
		row.Ratings = ratingsByPost[rec.PostID]
		rows = append(rows, row)
	}

	return rows, nil
}

func (r *PostRepositoryImpl) InsertPost(ctx context.Context, in models.NewPostRow) (*models.PostRow, error) {
	query := `
		INSERT INTO recycle_post (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + postColumns

	ingredients := in.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	var rec postRecord
	err := r.DB.QueryRowxContext(ctx, query,
		uuid.New().String(),
		in.AuthorID,
		in.Title,
		in.Description,
		in.Procedure,
		in.ImageURL,
		pq.StringArray(ingredients),
		string(in.Status),
		time.Now().UTC(),
	).StructScan(&rec)
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	row := rec.toRow()
	return &row, nil
}

func (r *PostRepositoryImpl) UpdatePost(ctx context.Context, postID string, upd models.PostUpdate) (*models.PostRow, error) {
	query := `
		UPDATE recycle_post SET
			title = $1,
			description = $2,
			procedure = $3,
			image_url = $4,
			ingredients = $5,
			status = $6
		WHERE post_id = $7
		RETURNING ` + postColumns

	ingredients := upd.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	var rec postRecord
	err := r.DB.QueryRowxContext(ctx, query,
		upd.Title,
		upd.Description,
		upd.Procedure,
		upd.ImageURL,
		pq.StringArray(ingredients),
		string(upd.Status),
		postID,
	).StructScan(&rec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("post", postID)
		}
		return nil, fmt.Errorf("could not update post: %w", err)
	}

	row := rec.toRow()
	return &row, nil
}

// UpdatePostStatus stores status and returns the value the database holds
// afterwards.
func (r *PostRepositoryImpl) UpdatePostStatus(ctx context.Context, postID string, status models.Status) (models.Status, error) {
	query := `UPDATE recycle_post SET status = $1 WHERE post_id = $2 RETURNING status`

	var stored string
	err := r.DB.GetContext(ctx, &stored, query, string(status), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.NewNotFoundError("post", postID)
		}
		return "", fmt.Errorf("could not update post status: %w", err)
	}

	return models.Status(stored), nil
}

// DeletePost removes the post row. Like and rating rows go with it through
// ON DELETE CASCADE.
func (r *PostRepositoryImpl) DeletePost(ctx context.Context, postID string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM recycle_post WHERE post_id = $1`, postID)
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.NewNotFoundError("post", postID)
	}

	return nil
}
