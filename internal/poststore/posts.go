package poststore

import (
	"context"
	"fmt"
	"slices"

	"recycleways/internal/models"
)

// FetchPosts replaces the local posts with the gateway's current view. On
// failure the local posts are left as they were.
func (s *Store) FetchPosts(ctx context.Context) error {
	done := s.begin()
	defer done()

	s.logger.Debug().Str("op", "fetch_posts").Msg("remote call")
	rows, err := s.gateway.ListPosts(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("fetch failed, keeping local posts")
		return fmt.Errorf("could not fetch posts: %w", err)
	}

	posts := DenormalizeAll(rows)

	s.mu.Lock()
	s.posts = posts
	snap := s.commitLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}

// CreatePost inserts a post authored by the current user and prepends it
// once the gateway has assigned its id.
func (s *Store) CreatePost(ctx context.Context, input models.PostInput) (models.Post, error) {
	user, err := s.currentUser()
	if err != nil {
		return models.Post{}, err
	}
	if err := s.validate.Struct(input); err != nil {
		return models.Post{}, models.NewValidationError("invalid post", err)
	}

	done := s.begin()
	defer done()

	s.logger.Debug().Str("op", "create_post").Str("author_id", user.ID).Msg("remote call")
	row, err := s.gateway.InsertPost(ctx, models.NewPostRow{
		AuthorID:    user.ID,
		Title:       input.Title,
		Description: input.Description,
		Procedure:   input.Procedure,
		ImageURL:    input.ImageURL,
		Ingredients: slices.Clone(input.Ingredients),
		Status:      s.initialStatus,
	})
	if err != nil {
		return models.Post{}, fmt.Errorf("could not create post: %w", err)
	}

	post := Denormalize(*row)
	post.AuthorName = user.Name

	s.mu.Lock()
	s.posts = slices.Insert(s.posts, 0, post)
	snap := s.commitLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
	return post.Clone(), nil
}

// UpdatePost writes every editable field of a local post. Editing a
// rejected post resubmits it for review; any other post is published.
func (s *Store) UpdatePost(ctx context.Context, postID string, input models.PostInput) (models.Post, error) {
	if _, err := s.currentUser(); err != nil {
		return models.Post{}, err
	}
	if err := s.validate.Struct(input); err != nil {
		return models.Post{}, models.NewValidationError("invalid post", err)
	}

	existing, ok := s.FindPost(postID)
	if !ok {
		return models.Post{}, models.NewNotFoundError("post", postID)
	}

	status := s.publishedStatus
	if existing.Status == models.StatusRejected {
		status = models.StatusRequesting
	}

	upd := models.PostUpdate{
		Title:       input.Title,
		Description: input.Description,
		Procedure:   input.Procedure,
		ImageURL:    input.ImageURL,
		Ingredients: slices.Clone(input.Ingredients),
		Status:      status,
	}

	done := s.begin()
	defer done()

	s.logger.Debug().Str("op", "update_post").Str("post_id", postID).Msg("remote call")
	row, err := s.gateway.UpdatePost(ctx, postID, upd)
	if err != nil {
		return models.Post{}, fmt.Errorf("could not update post: %w", err)
	}
	if row != nil {
		upd = models.PostUpdate{
			Title:       row.Title,
			Description: row.Description,
			Procedure:   row.Procedure,
			ImageURL:    row.ImageURL,
			Ingredients: row.Ingredients,
			Status:      row.Status,
		}
	}

	s.mu.Lock()
	i := s.indexOf(postID)
	if i < 0 {
		s.mu.Unlock()
		return models.Post{}, models.NewNotFoundError("post", postID)
	}
	p := &s.posts[i]
	p.Title = upd.Title
	p.Description = upd.Description
	p.Procedure = upd.Procedure
	p.ImageURL = upd.ImageURL
	p.Ingredients = slices.Clone(upd.Ingredients)
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	p.Status = upd.Status
	p.Synced = true
	updated := p.Clone()
	snap := s.commitLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
	return updated, nil
}

// DeletePost removes the post's image, unless it is the placeholder, and
// then the post itself. The local post is only dropped once both succeed.
func (s *Store) DeletePost(ctx context.Context, postID string) error {
	done := s.begin()
	defer done()

	if existing, ok := s.FindPost(postID); ok && s.images != nil &&
		existing.ImageURL != "" && existing.ImageURL != s.defaultImageURL {
		s.logger.Debug().Str("op", "delete_image").Str("post_id", postID).Msg("remote call")
		if err := s.images.DeleteImage(ctx, existing.ImageURL); err != nil {
			return fmt.Errorf("could not delete post image: %w", err)
		}
	}

	s.logger.Debug().Str("op", "delete_post").Str("post_id", postID).Msg("remote call")
	if err := s.gateway.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}

	s.mu.Lock()
	s.posts = slices.DeleteFunc(s.posts, func(p models.Post) bool { return p.ID == postID })
	snap := s.commitLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}
