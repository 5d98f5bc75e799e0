// Command server runs the poll engine: it applies migrations, wires the
// services and keeps the archival sweeper running until interrupted.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gercekmi/gercekmi-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
