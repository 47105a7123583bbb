package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"recycleways/internal/cache"
	"recycleways/internal/config"
	"recycleways/internal/database"
	handlers "recycleways/internal/handler"
	"recycleways/internal/identity"
	"recycleways/internal/poststore"
	"recycleways/internal/repository"
	"recycleways/internal/service"
	"recycleways/internal/storage"
)

var _ poststore.Gateway = (*repository.Gateway)(nil)

type Application struct {
	DB       *database.DB
	Cache    cache.Store
	Session  *identity.Session
	Services *service.Service
	Posts    *poststore.Store
	Handlers *handlers.Handlers

	closers []func() error
}

// App connects every backing service and wires the post store, the
// session and the HTTP handlers together. Persisted state is rehydrated
// before App returns.
func App(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Application, error) {
	a := &Application{}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, db.CloseDB)

	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.RedisURL != "" {
		redisStore, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("could not connect to redis: %w", err)
		}
		a.Cache = redisStore
		a.closers = append(a.closers, redisStore.Close)
	} else {
		logger.Warn().Msg("REDIS_URL not set, client state will not survive restarts")
		a.Cache = cache.NewMemoryStore()
	}

	repo := repository.NewRepository(db.DB)

	a.Session = identity.NewSession(a.Cache, cfg.Storage.AuthKey, logger.With().Str("component", "session").Logger())
	if err := a.Session.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("could not restore session")
	}

	a.Services = service.NewService(repo, cfg, a.Session, logger.With().Str("component", "auth").Logger())

	a.Posts = poststore.New(poststore.Options{
		Gateway:         repo.Gateway,
		Images:          minioClient,
		Cache:           a.Cache,
		Identity:        a.Session,
		Logger:          logger.With().Str("component", "poststore").Logger(),
		StorageKey:      cfg.Storage.PostKey,
		InitialStatus:   cfg.Posts.InitialStatus,
		PublishedStatus: cfg.Posts.PublishedStatus,
		DefaultImageURL: cfg.Posts.DefaultImageURL,
	})
	if err := a.Posts.Hydrate(ctx); err != nil {
		logger.Warn().Err(err).Msg("could not rehydrate posts")
	}

	a.Handlers = handlers.NewHandlers(a.Posts, a.Services, a.Session, minioClient, cfg, logger.With().Str("component", "http").Logger())

	return a, nil
}

// Close releases the connections opened by App in reverse order.
func (a *Application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
