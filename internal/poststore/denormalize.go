package poststore

import (
	"slices"

	"recycleways/internal/models"
)

const UnknownAuthor = "Unknown Author"

// Denormalize maps a joined gateway row to a Post. Duplicate like rows are
// collapsed and, for ratings, the last row of each user wins.
func Denormalize(row models.PostRow) models.Post {
	authorName := UnknownAuthor
	if row.Author != nil && row.Author.Name != "" {
		authorName = row.Author.Name
	}

	users := make([]string, 0, len(row.Likes))
	for _, like := range row.Likes {
		if !slices.Contains(users, like.UserID) {
			users = append(users, like.UserID)
		}
	}

	reviews := make([]models.Review, 0, len(row.Ratings))
	for _, r := range row.Ratings {
		review := models.Review{
			UserID:     r.UserID,
			AuthorName: r.AuthorName,
			Star:       r.Star,
			Comment:    r.Comment,
			CreatedAt:  r.CreatedAt,
		}
		reviews = upsertReview(reviews, review)
	}

	ingredients := row.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	} else {
		ingredients = slices.Clone(ingredients)
	}

	return models.Post{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Procedure:   row.Procedure,
		AuthorID:    row.AuthorID,
		AuthorName:  authorName,
		ImageURL:    row.ImageURL,
		Ingredients: ingredients,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		Likes:       models.Likes{Count: len(users), Users: users},
		Rating:      aggregateRating(reviews),
		Synced:      true,
	}
}

// DenormalizeAll maps every row and orders the result newest first.
func DenormalizeAll(rows []models.PostRow) []models.Post {
	posts := make([]models.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, Denormalize(row))
	}
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return posts
}

// aggregateRating derives the rating totals from reviews. reviews is owned
// by the result.
func aggregateRating(reviews []models.Review) models.Rating {
	if reviews == nil {
		reviews = []models.Review{}
	}

	users := make([]string, 0, len(reviews))
	sum := 0
	for _, r := range reviews {
		users = append(users, r.UserID)
		sum += r.Star
	}

	average := 0.0
	if len(reviews) > 0 {
		average = float64(sum) / float64(len(reviews))
	}

	return models.Rating{
		Total:   len(reviews),
		Users:   users,
		Average: average,
		Reviews: reviews,
	}
}

// upsertReview replaces the review of the same user in place, or appends.
func upsertReview(reviews []models.Review, review models.Review) []models.Review {
	for i := range reviews {
		if reviews[i].UserID == review.UserID {
			reviews[i] = review
			return reviews
		}
	}
	return append(reviews, review)
}
