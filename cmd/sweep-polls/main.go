// Command sweep-polls archives all polls whose voting window has closed.
// One-shot variant of the background sweeper, for cron or manual runs.
//
// Usage:
//
//	sweep-polls [--batch-size=500]
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	pollrepo "github.com/gercekmi/gercekmi-backend/internal/adapter/postgres/poll"
	"github.com/gercekmi/gercekmi-backend/internal/config"
	"github.com/gercekmi/gercekmi-backend/internal/sweeper"
)

func main() {
	batchSize := flag.Int("batch-size", 500, "maximum polls to archive per run")
	flag.Parse()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	sw := sweeper.New(logger, config.SweeperConfig{BatchSize: *batchSize}, pollrepo.New(pool))

	archived, err := sw.SweepOnce(ctx, time.Now())
	if err != nil {
		log.Fatalf("sweep polls: %v", err)
	}

	fmt.Printf("Archived %d expired polls.\n", archived)
}
