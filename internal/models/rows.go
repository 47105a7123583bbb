package models

import "time"

// PostRow is a post as returned by the joined read of the gateway, before
// denormalization.
type PostRow struct {
	ID          string
	AuthorID    string
	Title       string
	Description string
	Procedure   string
	ImageURL    string
	Ingredients []string
	Status      Status
	CreatedAt   time.Time
	Author      *AuthorRow
	Likes       []LikeRow
	Ratings     []RatingRow
}

type AuthorRow struct {
	Name string
}

type LikeRow struct {
	UserID string `db:"user_id"`
	PostID string `db:"post_id"`
}

type RatingRow struct {
	UserID     string    `db:"user_id"`
	PostID     string    `db:"post_id"`
	Star       int       `db:"star"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
	AuthorName string    `db:"author_name"`
}

// NewPostRow is the insert payload for a post.
type NewPostRow struct {
	AuthorID    string
	Title       string
	Description string
	Procedure   string
	ImageURL    string
	Ingredients []string
	Status      Status
}

// PostUpdate holds every editable column of a post.
type PostUpdate struct {
	Title       string
	Description string
	Procedure   string
	ImageURL    string
	Ingredients []string
	Status      Status
}
