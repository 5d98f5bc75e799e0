package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates an active user. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool, isEditor bool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:        uuid.New(),
		Username:  "testuser-" + suffix,
		IsEditor:  isEditor,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, username, is_editor, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.IsEditor, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedCategory creates a category. Returns a filled domain.Category.
func SeedCategory(t *testing.T, pool *pgxpool.Pool) domain.Category {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	icon := "🧪"
	color := "#808080"
	category := domain.Category{
		ID:        uuid.New(),
		Name:      "Category " + suffix,
		Icon:      &icon,
		Color:     &color,
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO categories (id, name, icon, color, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.Name, category.Icon, category.Color, category.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory insert category: %v", err)
	}

	return category
}

// SeedPoll creates an active poll with zeroed counters, expiring in 7 days.
// Returns a filled domain.Poll.
func SeedPoll(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) domain.Poll {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	return seedPollAt(t, pool, userID, now, now.Add(domain.DefaultPollDuration))
}

// SeedExpiredPoll creates a poll still marked active whose window closed an
// hour ago, as if the sweeper had not reached it yet.
func SeedExpiredPoll(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) domain.Poll {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	return seedPollAt(t, pool, userID, now.Add(-domain.DefaultPollDuration-time.Hour), now.Add(-time.Hour))
}

func seedPollAt(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, createdAt, expiresAt time.Time) domain.Poll {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	poll := domain.Poll{
		ID:        uuid.New(),
		UserID:    userID,
		Question:  "Is this a seeded poll question " + suffix + "?",
		State:     domain.PollStateActive,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO polls (id, user_id, question, state, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		poll.ID, poll.UserID, poll.Question, string(poll.State), poll.CreatedAt, poll.ExpiresAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPoll insert poll: %v", err)
	}

	return poll
}

// SeedVote creates a vote and bumps the matching poll counter, keeping the
// invariant the production write path maintains.
func SeedVote(t *testing.T, pool *pgxpool.Pool, userID, pollID uuid.UUID, choice domain.VoteChoice) domain.Vote {
	t.Helper()
	ctx := context.Background()

	vote := domain.Vote{
		ID:        uuid.New(),
		UserID:    userID,
		PollID:    pollID,
		Choice:    choice,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO votes (id, user_id, poll_id, choice, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		vote.ID, vote.UserID, vote.PollID, string(vote.Choice), vote.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedVote insert vote: %v", err)
	}

	column := "true_votes"
	if choice == domain.VoteChoiceLegend {
		column = "legend_votes"
	}
	_, err = pool.Exec(ctx, `UPDATE polls SET `+column+` = `+column+` + 1 WHERE id = $1`, pollID)
	if err != nil {
		t.Fatalf("testhelper: SeedVote bump counter: %v", err)
	}

	return vote
}

// SeedLike creates a like and bumps likes_count.
func SeedLike(t *testing.T, pool *pgxpool.Pool, userID, pollID uuid.UUID) domain.Like {
	t.Helper()
	ctx := context.Background()

	like := domain.Like{
		ID:        uuid.New(),
		UserID:    userID,
		PollID:    pollID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO likes (id, user_id, poll_id, created_at) VALUES ($1, $2, $3, $4)`,
		like.ID, like.UserID, like.PollID, like.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLike insert like: %v", err)
	}

	_, err = pool.Exec(ctx, `UPDATE polls SET likes_count = likes_count + 1 WHERE id = $1`, pollID)
	if err != nil {
		t.Fatalf("testhelper: SeedLike bump counter: %v", err)
	}

	return like
}

// SeedComment creates an active comment and bumps comments_count.
func SeedComment(t *testing.T, pool *pgxpool.Pool, userID, pollID uuid.UUID) domain.Comment {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	comment := domain.Comment{
		ID:        uuid.New(),
		UserID:    userID,
		PollID:    pollID,
		Content:   "Seeded comment " + uniqueSuffix(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO comments (id, user_id, poll_id, content, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		comment.ID, comment.UserID, comment.PollID, comment.Content, comment.IsActive, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedComment insert comment: %v", err)
	}

	_, err = pool.Exec(ctx, `UPDATE polls SET comments_count = comments_count + 1 WHERE id = $1`, pollID)
	if err != nil {
		t.Fatalf("testhelper: SeedComment bump counter: %v", err)
	}

	return comment
}

// PollCounters reads the denormalized counters straight from the poll row.
func PollCounters(t *testing.T, pool *pgxpool.Pool, pollID uuid.UUID) (trueVotes, legendVotes, likes, comments int) {
	t.Helper()

	err := pool.QueryRow(context.Background(),
		`SELECT true_votes, legend_votes, likes_count, comments_count FROM polls WHERE id = $1`,
		pollID,
	).Scan(&trueVotes, &legendVotes, &likes, &comments)
	if err != nil {
		t.Fatalf("testhelper: PollCounters: %v", err)
	}

	return trueVotes, legendVotes, likes, comments
}
