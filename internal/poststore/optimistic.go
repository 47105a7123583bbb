package poststore

import (
	"context"

	"recycleways/internal/models"
)

// mutation applies a local change to p and returns the func that reverts
// it. A nil undo means there is nothing to do.
type mutation func(p *models.Post) (undo func(p *models.Post))

type optimisticOp struct {
	name   string
	postID string
	apply  mutation
	remote func(ctx context.Context) error
	// reconcile runs on the post after a successful remote call.
	reconcile func(p *models.Post)
}

// optimistic applies op.apply to the local post, runs op.remote and either
// reconciles or reverts. Only the sub-aggregate touched by apply is
// reverted, so operations on other parts of the same post are kept.
func (s *Store) optimistic(ctx context.Context, op optimisticOp) error {
	s.mu.Lock()
	i := s.indexOf(op.postID)
	if i < 0 {
		s.mu.Unlock()
		return models.NewNotFoundError("post", op.postID)
	}
	undo := op.apply(&s.posts[i])
	if undo == nil {
		s.mu.Unlock()
		return nil
	}
	s.inflight++
	snap := s.commitLocked()
	s.mu.Unlock()

	settled := false
	defer func() {
		if !settled {
			s.mu.Lock()
			s.inflight--
			s.mu.Unlock()
		}
	}()

	s.persist(ctx, snap)

	s.logger.Debug().Str("op", op.name).Str("post_id", op.postID).Msg("remote call")
	err := op.remote(ctx)

	s.mu.Lock()
	s.inflight--
	settled = true
	if i = s.indexOf(op.postID); i >= 0 {
		if err != nil {
			undo(&s.posts[i])
		} else if op.reconcile != nil {
			op.reconcile(&s.posts[i])
		}
	}
	snap = s.commitLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)

	if err != nil {
		s.logger.Warn().Err(err).Str("op", op.name).Str("post_id", op.postID).Msg("remote call failed, local change rolled back")
		return err
	}
	return nil
}
