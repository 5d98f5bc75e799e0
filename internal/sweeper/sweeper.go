// Package sweeper archives polls whose voting window has closed.
//
// Archival is driven by wall-clock expiry, not by traffic: the sweeper is
// the only writer of the active to archived transition, and read paths
// filter on expires_at so an expired poll is invisible as active even
// before the sweeper reaches it.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/config"
)

type pollStore interface {
	ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	TransitionIfExpired(ctx context.Context, pollID uuid.UUID, now time.Time) (bool, error)
}

// Sweeper periodically moves expired active polls to archived.
type Sweeper struct {
	log   *slog.Logger
	cfg   config.SweeperConfig
	polls pollStore
}

// New creates a new Sweeper.
func New(logger *slog.Logger, cfg config.SweeperConfig, polls pollStore) *Sweeper {
	return &Sweeper{
		log:   logger.With("component", "sweeper"),
		cfg:   cfg,
		polls: polls,
	}
}

// SweepOnce archives every poll expired as of now, up to the batch size,
// and returns how many transitions this call performed.
//
// Each poll transitions independently: one failure is recorded and the
// batch continues, so a single bad row cannot wedge archival for the rest.
// The transition itself is conditional, so overlapping sweeps (or a
// concurrent manual run) archive each poll exactly once between them.
func (s *Sweeper) SweepOnce(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.polls.ListExpiredActive(ctx, now, s.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list expired polls: %w", err)
	}

	var archived int
	var errs []error
	for _, id := range ids {
		transitioned, err := s.polls.TransitionIfExpired(ctx, id, now)
		if err != nil {
			s.log.ErrorContext(ctx, "failed to archive poll",
				slog.String("poll_id", id.String()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("poll %s: %w", id, err))
			continue
		}
		if transitioned {
			archived++
		}
	}

	if archived > 0 {
		s.log.InfoContext(ctx, "polls archived",
			slog.Int("count", archived),
			slog.Int("candidates", len(ids)),
		)
	}

	return archived, errors.Join(errs...)
}

// Run sweeps on the configured interval until the context is canceled.
// Errors are logged and the loop keeps going.
func (s *Sweeper) Run(ctx context.Context) error {
	s.log.InfoContext(ctx, "sweeper started",
		slog.Duration("interval", s.cfg.Interval),
		slog.Int("batch_size", s.cfg.BatchSize),
	)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx, time.Now()); err != nil {
				s.log.ErrorContext(ctx, "sweep failed", slog.Any("error", err))
			}
		}
	}
}
