package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"recycleways/cmd/app"
	"recycleways/internal/config"
	"recycleways/internal/middleware"
	"recycleways/internal/poststore"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}

	logger := newLogger(cfg)
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.App(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not start application")
	}
	defer application.Close()

	if err := application.Posts.FetchPosts(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial fetch failed, serving rehydrated posts")
	}

	if cfg.Posts.RefreshSchedule != "" {
		refresher, err := poststore.NewRefresher(application.Posts, cfg.Posts.RefreshSchedule, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not schedule post refresh")
		}
		refresher.Start()
		defer refresher.Stop()
	}

	handlerChain := middleware.Chain(
		application.Handlers.Routes(),
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware(logger),
		middleware.RecoverMiddleware(logger),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.IsProduction() {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
