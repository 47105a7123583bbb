package poststore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"recycleways/internal/cache"
	"recycleways/internal/models"
)

var errRemote = errors.New("remote unavailable")

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type stubGateway struct {
	mu    sync.Mutex
	calls []string

	listPosts        func(ctx context.Context) ([]models.PostRow, error)
	insertPost       func(ctx context.Context, row models.NewPostRow) (*models.PostRow, error)
	updatePost       func(ctx context.Context, postID string, upd models.PostUpdate) (*models.PostRow, error)
	updatePostStatus func(ctx context.Context, postID string, status models.Status) (models.Status, error)
	deletePost       func(ctx context.Context, postID string) error
	insertLike       func(ctx context.Context, userID, postID string) error
	deleteLike       func(ctx context.Context, userID, postID string) error
	upsertRating     func(ctx context.Context, row models.RatingRow) error
	deleteRating     func(ctx context.Context, userID, postID string) error
}

func (g *stubGateway) record(call string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

func (g *stubGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *stubGateway) ListPosts(ctx context.Context) ([]models.PostRow, error) {
	g.record("ListPosts")
	if g.listPosts == nil {
		return nil, nil
	}
	return g.listPosts(ctx)
}

func (g *stubGateway) InsertPost(ctx context.Context, row models.NewPostRow) (*models.PostRow, error) {
	g.record("InsertPost")
	if g.insertPost != nil {
		return g.insertPost(ctx, row)
	}
	return &models.PostRow{
		ID:          "new-post",
		AuthorID:    row.AuthorID,
		Title:       row.Title,
		Description: row.Description,
		Procedure:   row.Procedure,
		ImageURL:    row.ImageURL,
		Ingredients: row.Ingredients,
		Status:      row.Status,
		CreatedAt:   baseTime.Add(24 * time.Hour),
	}, nil
}

func (g *stubGateway) UpdatePost(ctx context.Context, postID string, upd models.PostUpdate) (*models.PostRow, error) {
	g.record("UpdatePost")
	if g.updatePost != nil {
		return g.updatePost(ctx, postID, upd)
	}
	return &models.PostRow{
		ID:          postID,
		Title:       upd.Title,
		Description: upd.Description,
		Procedure:   upd.Procedure,
		ImageURL:    upd.ImageURL,
		Ingredients: upd.Ingredients,
		Status:      upd.Status,
	}, nil
}

func (g *stubGateway) UpdatePostStatus(ctx context.Context, postID string, status models.Status) (models.Status, error) {
	g.record("UpdatePostStatus")
	if g.updatePostStatus != nil {
		return g.updatePostStatus(ctx, postID, status)
	}
	return status, nil
}

func (g *stubGateway) DeletePost(ctx context.Context, postID string) error {
	g.record("DeletePost")
	if g.deletePost != nil {
		return g.deletePost(ctx, postID)
	}
	return nil
}

func (g *stubGateway) InsertLike(ctx context.Context, userID, postID string) error {
	g.record("InsertLike")
	if g.insertLike != nil {
		return g.insertLike(ctx, userID, postID)
	}
	return nil
}

func (g *stubGateway) DeleteLike(ctx context.Context, userID, postID string) error {
	g.record("DeleteLike")
	if g.deleteLike != nil {
		return g.deleteLike(ctx, userID, postID)
	}
	return nil
}

func (g *stubGateway) UpsertRating(ctx context.Context, row models.RatingRow) error {
	g.record("UpsertRating")
	if g.upsertRating != nil {
		return g.upsertRating(ctx, row)
	}
	return nil
}

func (g *stubGateway) DeleteRating(ctx context.Context, userID, postID string) error {
	g.record("DeleteRating")
	if g.deleteRating != nil {
		return g.deleteRating(ctx, userID, postID)
	}
	return nil
}

type stubIdentity struct {
	user *models.User
}

func (i *stubIdentity) CurrentUser() *models.User {
	if i.user == nil {
		return nil
	}
	u := *i.user
	return &u
}

type stubImages struct {
	deleted []string
	err     error
}

func (s *stubImages) DeleteImage(_ context.Context, imageURL string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, imageURL)
	return nil
}

type testEnv struct {
	store    *Store
	gateway  *stubGateway
	identity *stubIdentity
	images   *stubImages
	cache    *cache.MemoryStore
}

var ana = &models.User{ID: "u1", Name: "Ana", Role: models.RoleUser}

func newTestEnv(t *testing.T, user *models.User) *testEnv {
	t.Helper()

	env := &testEnv{
		gateway:  &stubGateway{},
		identity: &stubIdentity{user: user},
		images:   &stubImages{},
		cache:    cache.NewMemoryStore(),
	}
	env.store = New(Options{
		Gateway:         env.gateway,
		Images:          env.images,
		Cache:           env.cache,
		Identity:        env.identity,
		Logger:          zerolog.Nop(),
		StorageKey:      DefaultStorageKey,
		InitialStatus:   models.StatusRequesting,
		PublishedStatus: models.StatusPublished,
		DefaultImageURL: "http://img/default.png",
	})
	env.store.now = func() time.Time { return baseTime.Add(48 * time.Hour) }
	return env
}

// seed loads rows into the store through FetchPosts.
func (e *testEnv) seed(t *testing.T, rows ...models.PostRow) {
	t.Helper()

	e.gateway.listPosts = func(context.Context) ([]models.PostRow, error) { return rows, nil }
	require.NoError(t, e.store.FetchPosts(context.Background()))
	e.gateway.listPosts = nil
}

func postRow(id string, offset time.Duration) models.PostRow {
	return models.PostRow{
		ID:          id,
		AuthorID:    "author-" + id,
		Title:       "Title " + id,
		Description: "Description " + id,
		Procedure:   "Procedure " + id,
		ImageURL:    "http://img/" + id + ".jpg",
		Ingredients: []string{"bottle", "scissors"},
		Status:      models.StatusPublished,
		CreatedAt:   baseTime.Add(offset),
		Author:      &models.AuthorRow{Name: "Author " + id},
	}
}

func ratingRow(userID, postID string, star int) models.RatingRow {
	return models.RatingRow{
		UserID:     userID,
		PostID:     postID,
		Star:       star,
		Comment:    "comment by " + userID,
		CreatedAt:  baseTime,
		AuthorName: "Name " + userID,
	}
}

func mustFind(t *testing.T, s *Store, postID string) models.Post {
	t.Helper()

	p, ok := s.FindPost(postID)
	require.True(t, ok, "post %s not found", postID)
	return p
}
