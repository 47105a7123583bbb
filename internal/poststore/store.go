// Package poststore keeps the client-side collection of posts in sync with
// the remote gateway. Likes, ratings and moderation status are updated
// optimistically and rolled back when the remote call fails.
package poststore

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"recycleways/internal/cache"
	"recycleways/internal/models"
)

// Gateway is the remote data service holding posts, likes and ratings.
type Gateway interface {
	ListPosts(ctx context.Context) ([]models.PostRow, error)
	InsertPost(ctx context.Context, row models.NewPostRow) (*models.PostRow, error)
	UpdatePost(ctx context.Context, postID string, upd models.PostUpdate) (*models.PostRow, error)
	UpdatePostStatus(ctx context.Context, postID string, status models.Status) (models.Status, error)
	DeletePost(ctx context.Context, postID string) error

	InsertLike(ctx context.Context, userID, postID string) error
	DeleteLike(ctx context.Context, userID, postID string) error

	UpsertRating(ctx context.Context, row models.RatingRow) error
	DeleteRating(ctx context.Context, userID, postID string) error
}

type ImageStore interface {
	DeleteImage(ctx context.Context, imageURL string) error
}

// IdentityProvider supplies the signed-in user, or nil.
type IdentityProvider interface {
	CurrentUser() *models.User
}

const DefaultStorageKey = "post-storage"

type Options struct {
	Gateway  Gateway
	Images   ImageStore
	Cache    cache.Store
	Identity IdentityProvider
	Logger   zerolog.Logger

	StorageKey      string
	InitialStatus   models.Status
	PublishedStatus models.Status
	DefaultImageURL string
}

type Store struct {
	gateway  Gateway
	images   ImageStore
	cache    cache.Store
	identity IdentityProvider
	logger   zerolog.Logger
	validate *validator.Validate
	now      func() time.Time

	storageKey      string
	initialStatus   models.Status
	publishedStatus models.Status
	defaultImageURL string

	mu       sync.Mutex
	posts    []models.Post
	inflight int
	revision uint64

	persistMu sync.Mutex
	written   uint64
}

func New(opts Options) *Store {
	s := &Store{
		gateway:         opts.Gateway,
		images:          opts.Images,
		cache:           opts.Cache,
		identity:        opts.Identity,
		logger:          opts.Logger,
		validate:        validator.New(),
		now:             time.Now,
		storageKey:      opts.StorageKey,
		initialStatus:   opts.InitialStatus,
		publishedStatus: opts.PublishedStatus,
		defaultImageURL: opts.DefaultImageURL,
		posts:           []models.Post{},
	}
	if s.storageKey == "" {
		s.storageKey = DefaultStorageKey
	}
	if s.initialStatus == "" {
		s.initialStatus = models.StatusRequesting
	}
	if s.publishedStatus == "" {
		s.publishedStatus = models.StatusPublished
	}
	return s
}

// FindPost returns a copy of the post with the given id.
func (s *Store) FindPost(postID string) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(postID); i >= 0 {
		return s.posts[i].Clone(), true
	}
	return models.Post{}, false
}

// Posts returns a copy of every post, newest first.
func (s *Store) Posts() []models.Post {
	return s.filter(func(models.Post) bool { return true })
}

func (s *Store) PostsByStatus(status models.Status) []models.Post {
	return s.filter(func(p models.Post) bool { return p.Status == status })
}

func (s *Store) PostsByAuthor(authorID string) []models.Post {
	return s.filter(func(p models.Post) bool { return p.AuthorID == authorID })
}

// Loading reports whether any remote call is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

func (s *Store) filter(keep func(models.Post) bool) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(postID string) int {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

// begin marks a remote call as in flight. The returned func ends it.
func (s *Store) begin() func() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}
}

func (s *Store) currentUser() (*models.User, error) {
	if s.identity == nil {
		return nil, models.ErrAuthRequired
	}
	user := s.identity.CurrentUser()
	if user == nil || user.ID == "" {
		return nil, models.ErrAuthRequired
	}
	return user, nil
}
