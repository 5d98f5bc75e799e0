// Command promote-editor grants a user the editor privilege by username.
// Editors bypass the daily poll quota and rank first in active listings.
//
// Usage:
//
//	promote-editor --username=someuser
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	username := flag.String("username", "", "username of the user to promote to editor")
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "Usage: promote-editor --username=someuser")
		os.Exit(1)
	}

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

	tag, err := pool.Exec(ctx,
		"UPDATE users SET is_editor = true, updated_at = now() WHERE username = $1 AND NOT is_editor",
		*username,
	)
	if err != nil {
		log.Fatalf("update user: %v", err)
	}

	if tag.RowsAffected() == 0 {
		fmt.Printf("No change: user %q not found or already an editor.\n", *username)
		return
	}
	fmt.Printf("User %q is now an editor.\n", *username)
}
