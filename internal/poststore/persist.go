package poststore

import (
	"context"
	"encoding/json"
	"fmt"

	"recycleways/internal/models"
)

type persistedState struct {
	State struct {
		Posts   []models.Post `json:"posts"`
		Loading bool          `json:"loading"`
	} `json:"state"`
	Version int `json:"version"`
}

type snapshot struct {
	revision uint64
	blob     []byte
}

// commitLocked bumps the revision and encodes the current state. It must be
// called with s.mu held; the result is written with persist after unlocking.
func (s *Store) commitLocked() snapshot {
	s.revision++

	var state persistedState
	state.State.Posts = s.posts
	state.State.Loading = s.inflight > 0

	blob, err := json.Marshal(state)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not encode post state")
		return snapshot{revision: s.revision}
	}
	return snapshot{revision: s.revision, blob: blob}
}

// persist writes snap to the cache unless a newer revision is already
// there. Failures are logged and never returned.
func (s *Store) persist(ctx context.Context, snap snapshot) {
	if s.cache == nil || snap.blob == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if snap.revision <= s.written {
		return
	}
	if err := s.cache.SetItem(context.WithoutCancel(ctx), s.storageKey, snap.blob); err != nil {
		s.logger.Warn().Err(err).Str("key", s.storageKey).Msg("could not persist posts")
		return
	}
	s.written = snap.revision
}

// Hydrate restores the posts persisted by a previous process. It should be
// called once at start, before the first FetchPosts. A persisted loading
// flag is ignored.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	blob, ok, err := s.cache.GetItem(ctx, s.storageKey)
	if err != nil {
		return fmt.Errorf("could not read persisted posts: %w", err)
	}
	if !ok {
		return nil
	}

	var state persistedState
	if err := json.Unmarshal(blob, &state); err != nil {
		return fmt.Errorf("could not decode persisted posts: %w", err)
	}

	posts := state.State.Posts
	if posts == nil {
		posts = []models.Post{}
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()

	s.logger.Debug().Int("posts", len(posts)).Msg("post state rehydrated")
	return nil
}
