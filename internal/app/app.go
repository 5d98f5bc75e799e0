package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/gercekmi/gercekmi-backend/internal/adapter/postgres"
	categoryrepo "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres/category"
	commentrepo "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres/comment"
	likerepo "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres/like"
	pollrepo "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres/poll"
	quotarepo "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres/quota"
	voterepo "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres/vote"
	"github.com/gercekmi/gercekmi-backend/internal/config"
	commentsvc "github.com/gercekmi/gercekmi-backend/internal/service/comment"
	likesvc "github.com/gercekmi/gercekmi-backend/internal/service/like"
	pollsvc "github.com/gercekmi/gercekmi-backend/internal/service/poll"
	votesvc "github.com/gercekmi/gercekmi-backend/internal/service/vote"
	"github.com/gercekmi/gercekmi-backend/internal/sweeper"
)

// App wires the storage layer, the services and the background sweeper.
type App struct {
	log  *slog.Logger
	pool *pgxpool.Pool

	Polls    *pollsvc.Service
	Votes    *votesvc.Service
	Likes    *likesvc.Service
	Comments *commentsvc.Service
	Sweeper  *sweeper.Sweeper
}

// New connects to the database, optionally applies migrations, and builds
// the full service graph.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	tx := postgres.NewTxManager(pool)

	polls := pollrepo.New(pool)
	votes := voterepo.New(pool)
	likes := likerepo.New(pool)
	comments := commentrepo.New(pool)
	quotas := quotarepo.New(pool)
	categories := categoryrepo.New(pool)

	return &App{
		log:      logger,
		pool:     pool,
		Polls:    pollsvc.NewService(logger, cfg.Poll, polls, quotas, categories, votes, likes, tx),
		Votes:    votesvc.NewService(logger, polls, votes, tx),
		Likes:    likesvc.NewService(logger, polls, likes, tx),
		Comments: commentsvc.NewService(logger, cfg.Poll, polls, comments, tx),
		Sweeper:  sweeper.New(logger, cfg.Sweeper, polls),
	}, nil
}

// Run starts the background workers and blocks until the context is
// canceled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Sweeper.Run(gCtx)
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases the database pool.
func (a *App) Close() {
	a.pool.Close()
}

// Run is the application entry point. It loads configuration, initializes
// the logger, builds the application and runs it until the context is
// canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}
