package poststore

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const refreshTimeout = 30 * time.Second

// Refresher runs FetchPosts on a cron schedule.
type Refresher struct {
	store    *Store
	schedule string
	cron     *cron.Cron
	entryID  cron.EntryID
	logger   zerolog.Logger
}

func NewRefresher(store *Store, schedule string, logger zerolog.Logger) (*Refresher, error) {
	r := &Refresher{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}

	id, err := r.cron.AddFunc(schedule, r.refresh)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	r.entryID = id

	return r, nil
}

func (r *Refresher) Start() {
	r.logger.Info().Str("schedule", r.schedule).Msg("starting post refresher")
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info().Msg("stopped post refresher")
}

func (r *Refresher) refresh() {
	if r.store.Loading() {
		r.logger.Debug().Msg("store busy, skipping scheduled refresh")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := r.store.FetchPosts(ctx); err != nil {
		r.logger.Error().Err(err).Msg("scheduled refresh failed")
	}
}
