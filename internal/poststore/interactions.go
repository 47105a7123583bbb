package poststore

import (
	"context"
	"fmt"
	"slices"

	"recycleways/internal/models"
)

// ToggleLike likes or unlikes a post for the current user. A post that is
// not held locally is ignored.
func (s *Store) ToggleLike(ctx context.Context, postID string) error {
	user, err := s.currentUser()
	if err != nil {
		return err
	}
	if _, ok := s.FindPost(postID); !ok {
		return nil
	}

	var hasLiked bool
	return s.optimistic(ctx, optimisticOp{
		name:   "toggle_like",
		postID: postID,
		apply: func(p *models.Post) func(*models.Post) {
			prev, prevSynced := p.Likes.Clone(), p.Synced
			hasLiked = p.Likes.Has(user.ID)

			users := slices.Clone(p.Likes.Users)
			if hasLiked {
				users = slices.DeleteFunc(users, func(id string) bool { return id == user.ID })
			} else {
				users = append(users, user.ID)
			}
			if users == nil {
				users = []string{}
			}
			p.Likes = models.Likes{Count: len(users), Users: users}
			p.Synced = false

			return func(p *models.Post) {
				p.Likes = prev
				p.Synced = prevSynced
			}
		},
		remote: func(ctx context.Context) error {
			if hasLiked {
				if err := s.gateway.DeleteLike(ctx, user.ID, postID); err != nil {
					return fmt.Errorf("could not remove like: %w", err)
				}
				return nil
			}
			if err := s.gateway.InsertLike(ctx, user.ID, postID); err != nil {
				return fmt.Errorf("could not add like: %w", err)
			}
			return nil
		},
		reconcile: markSynced,
	})
}

// UpdatePostRating inserts the current user's review or replaces it.
func (s *Store) UpdatePostRating(ctx context.Context, postID string, star int, comment string) error {
	user, err := s.currentUser()
	if err != nil {
		return err
	}

	var row models.RatingRow
	return s.optimistic(ctx, optimisticOp{
		name:   "update_rating",
		postID: postID,
		apply: func(p *models.Post) func(*models.Post) {
			prev, prevSynced := p.Rating.Clone(), p.Synced

			review := models.Review{
				UserID:     user.ID,
				AuthorName: user.Name,
				Star:       star,
				Comment:    comment,
				CreatedAt:  s.now().UTC(),
			}
			if existing, ok := p.Rating.ReviewBy(user.ID); ok {
				review.CreatedAt = existing.CreatedAt
			}
			row = models.RatingRow{
				UserID:    user.ID,
				PostID:    postID,
				Star:      star,
				Comment:   comment,
				CreatedAt: review.CreatedAt,
			}

			p.Rating = aggregateRating(upsertReview(slices.Clone(p.Rating.Reviews), review))
			p.Synced = false

			return func(p *models.Post) {
				p.Rating = prev
				p.Synced = prevSynced
			}
		},
		remote: func(ctx context.Context) error {
			if err := s.gateway.UpsertRating(ctx, row); err != nil {
				return fmt.Errorf("could not save rating: %w", err)
			}
			return nil
		},
		reconcile: markSynced,
	})
}

// DeleteRating removes the current user's review and recomputes the
// average over the remaining reviews.
func (s *Store) DeleteRating(ctx context.Context, postID string) error {
	user, err := s.currentUser()
	if err != nil {
		return err
	}

	post, ok := s.FindPost(postID)
	if !ok {
		return models.NewNotFoundError("post", postID)
	}
	if _, ok := post.Rating.ReviewBy(user.ID); !ok {
		return models.NewNotFoundError("rating", postID)
	}

	return s.optimistic(ctx, optimisticOp{
		name:   "delete_rating",
		postID: postID,
		apply: func(p *models.Post) func(*models.Post) {
			if _, ok := p.Rating.ReviewBy(user.ID); !ok {
				return nil
			}
			prev, prevSynced := p.Rating.Clone(), p.Synced

			reviews := slices.DeleteFunc(slices.Clone(p.Rating.Reviews), func(r models.Review) bool {
				return r.UserID == user.ID
			})
			p.Rating = aggregateRating(reviews)
			p.Synced = false

			return func(p *models.Post) {
				p.Rating = prev
				p.Synced = prevSynced
			}
		},
		remote: func(ctx context.Context) error {
			if err := s.gateway.DeleteRating(ctx, user.ID, postID); err != nil {
				return fmt.Errorf("could not delete rating: %w", err)
			}
			return nil
		},
		reconcile: markSynced,
	})
}

// UpdatePostStatus sets the moderation status of a post and then adopts
// whatever status the gateway reports back.
func (s *Store) UpdatePostStatus(ctx context.Context, postID string, status models.Status) error {
	if !status.Valid() {
		return models.NewValidationError(fmt.Sprintf("unknown status %q", status), nil)
	}

	var confirmed models.Status
	return s.optimistic(ctx, optimisticOp{
		name:   "update_status",
		postID: postID,
		apply: func(p *models.Post) func(*models.Post) {
			prev, prevSynced := p.Status, p.Synced
			p.Status = status
			p.Synced = false

			return func(p *models.Post) {
				p.Status = prev
				p.Synced = prevSynced
			}
		},
		remote: func(ctx context.Context) error {
			var err error
			confirmed, err = s.gateway.UpdatePostStatus(ctx, postID, status)
			if err != nil {
				return fmt.Errorf("could not update post status: %w", err)
			}
			return nil
		},
		reconcile: func(p *models.Post) {
			if confirmed != "" {
				p.Status = confirmed
			}
			p.Synced = true
		},
	})
}

func markSynced(p *models.Post) {
	p.Synced = true
}
