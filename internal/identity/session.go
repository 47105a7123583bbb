// Package identity holds the signed-in user of this client.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"recycleways/internal/cache"
	"recycleways/internal/models"
)

type persistedSession struct {
	State struct {
		User  *models.User `json:"user"`
		Token string       `json:"token,omitempty"`
	} `json:"state"`
	Version int `json:"version"`
}

// Session is the current-user provider. Every method is safe for concurrent
// use; CurrentUser never blocks on I/O.
type Session struct {
	mu    sync.RWMutex
	user  *models.User
	token string

	cache  cache.Store
	key    string
	logger zerolog.Logger
}

func NewSession(store cache.Store, key string, logger zerolog.Logger) *Session {
	return &Session{cache: store, key: key, logger: logger}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	u.PasswordHash = ""
	return &u
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAdmin() bool {
	return s.CurrentUser().IsAdmin()
}

// SignIn replaces the current user and persists the session.
func (s *Session) SignIn(ctx context.Context, user *models.User, token string) {
	u := *user
	u.PasswordHash = ""

	s.mu.Lock()
	s.user = &u
	s.token = token
	s.mu.Unlock()

	s.persist(ctx)
}

// SignOut clears the current user and removes the persisted session.
func (s *Session) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if s.cache == nil {
		return
	}
	if err := s.cache.RemoveItem(ctx, s.key); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("could not remove persisted session")
	}
}

// Restore loads a previously persisted session. A missing entry leaves the
// session signed out.
func (s *Session) Restore(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	blob, ok, err := s.cache.GetItem(ctx, s.key)
	if err != nil {
		return fmt.Errorf("could not read session: %w", err)
	}
	if !ok {
		return nil
	}

	var stored persistedSession
	if err := json.Unmarshal(blob, &stored); err != nil {
		return fmt.Errorf("could not decode session: %w", err)
	}

	s.mu.Lock()
	s.user = stored.State.User
	s.token = stored.State.Token
	s.mu.Unlock()

	return nil
}

func (s *Session) persist(ctx context.Context) {
	if s.cache == nil {
		return
	}

	var stored persistedSession
	s.mu.RLock()
	stored.State.User = s.user
	stored.State.Token = s.token
	s.mu.RUnlock()

	blob, err := json.Marshal(stored)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not encode session")
		return
	}
	if err := s.cache.SetItem(ctx, s.key, blob); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("could not persist session")
	}
}
