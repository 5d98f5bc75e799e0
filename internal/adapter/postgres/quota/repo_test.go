package quota_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gercekmi/gercekmi-backend/internal/adapter/postgres/quota"
	"github.com/gercekmi/gercekmi-backend/internal/adapter/postgres/testhelper"
	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

func TestRepo_TryIncrement_Ceiling(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := quota.New(pool)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool, false)
	date := domain.QuotaDate(time.Now())

	for i := 0; i < domain.DailyPollLimit; i++ {
		ok, err := repo.TryIncrement(ctx, user.ID, date, domain.DailyPollLimit)
		if err != nil {
			t.Fatalf("TryIncrement[%d]: unexpected error: %v", i, err)
		}
		if !ok {
			t.Fatalf("TryIncrement[%d]: expected claim to succeed", i)
		}
	}

	ok, err := repo.TryIncrement(ctx, user.ID, date, domain.DailyPollLimit)
	if err != nil {
		t.Fatalf("TryIncrement over limit: unexpected error: %v", err)
	}
	if ok {
		t.Error("claim beyond the daily limit must be denied")
	}

	used, err := repo.Used(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("Used: unexpected error: %v", err)
	}
	if used != domain.DailyPollLimit {
		t.Errorf("denied claim must not bump the count: used=%d", used)
	}
}

func TestRepo_TryIncrement_ConcurrentLastUnit(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := quota.New(pool)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool, false)
	date := domain.QuotaDate(time.Now())

	// 8 workers race for 2 units: exactly 2 must win.
	var wins atomic.Int32
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			ok, err := repo.TryIncrement(gCtx, user.ID, date, domain.DailyPollLimit)
			if err != nil {
				return err
			}
			if ok {
				wins.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent TryIncrement: %v", err)
	}

	if got := wins.Load(); got != int32(domain.DailyPollLimit) {
		t.Errorf("expected exactly %d winners, got %d", domain.DailyPollLimit, got)
	}

	used, err := repo.Used(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("Used: unexpected error: %v", err)
	}
	if used != domain.DailyPollLimit {
		t.Errorf("expected count pinned at the limit, got %d", used)
	}
}

func TestRepo_Used_FreshDay(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := quota.New(pool)

	user := testhelper.SeedUser(t, pool, false)

	used, err := repo.Used(context.Background(), user.ID, domain.QuotaDate(time.Now()))
	if err != nil {
		t.Fatalf("Used: unexpected error: %v", err)
	}
	if used != 0 {
		t.Errorf("expected 0 for a day with no row, got %d", used)
	}
}

func TestRepo_TryIncrement_DaysAreIndependent(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := quota.New(pool)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool, false)
	today := domain.QuotaDate(time.Now())
	yesterday := today.AddDate(0, 0, -1)

	for i := 0; i < domain.DailyPollLimit; i++ {
		if ok, err := repo.TryIncrement(ctx, user.ID, yesterday, domain.DailyPollLimit); err != nil || !ok {
			t.Fatalf("yesterday claim %d: ok=%v err=%v", i, ok, err)
		}
	}

	// Yesterday's exhaustion does not touch today's allowance.
	ok, err := repo.TryIncrement(ctx, user.ID, today, domain.DailyPollLimit)
	if err != nil {
		t.Fatalf("today claim: unexpected error: %v", err)
	}
	if !ok {
		t.Error("a new day must start with a fresh allowance")
	}
}
