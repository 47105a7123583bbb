package models

import (
	"slices"
	"time"
)

type Status string

const (
	StatusRequesting Status = "REQUESTING"
	StatusPublished  Status = "PUBLISHED"
	StatusAccepted   Status = "ACCEPTED"
	StatusRejected   Status = "REJECTED"
)

// Valid reports whether s is one of the known moderation states.
func (s Status) Valid() bool {
	switch s {
	case StatusRequesting, StatusPublished, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Likes is the aggregate of like rows attached to a post.
// Count always equals len(Users).
type Likes struct {
	Count int      `json:"count"`
	Users []string `json:"users"`
}

func (l Likes) Clone() Likes {
	return Likes{Count: l.Count, Users: cloneStrings(l.Users)}
}

// Has reports whether userID liked the post.
func (l Likes) Has(userID string) bool {
	return slices.Contains(l.Users, userID)
}

type Review struct {
	UserID     string    `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Star       int       `json:"star"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// Rating is the aggregate of rating rows attached to a post. There is at
// most one review per user.
type Rating struct {
	Total   int      `json:"total"`
	Users   []string `json:"users"`
	Average float64  `json:"average"`
	Reviews []Review `json:"reviews"`
}

func (r Rating) Clone() Rating {
	return Rating{
		Total:   r.Total,
		Users:   cloneStrings(r.Users),
		Average: r.Average,
		Reviews: slices.Clone(r.Reviews),
	}
}

// ReviewBy returns the review written by userID.
func (r Rating) ReviewBy(userID string) (Review, bool) {
	for _, review := range r.Reviews {
		if review.UserID == userID {
			return review, true
		}
	}
	return Review{}, false
}

type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Procedure   string    `json:"procedure"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	ImageURL    string    `json:"image_url,omitempty"`
	Ingredients []string  `json:"ingredients"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Likes       Likes     `json:"likes"`
	Rating      Rating    `json:"rating"`
	Synced      bool      `json:"synced"`
}

// Clone returns a deep copy of p.
func (p Post) Clone() Post {
	c := p
	c.Ingredients = cloneStrings(p.Ingredients)
	c.Likes = p.Likes.Clone()
	c.Rating = p.Rating.Clone()
	return c
}

// PostInput carries the user-editable fields of a post.
type PostInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	ImageURL    string   `json:"image_url,omitempty"`
	Ingredients []string `json:"ingredients" validate:"min=1,dive,required"`
	Procedure   string   `json:"procedure"`
}

func cloneStrings(in []string) []string {
	return slices.Clone(in)
}
