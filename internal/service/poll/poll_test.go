package poll

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/config"
	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Test mocks (minimal, inline)
// ---------------------------------------------------------------------------

type mockPollRepo struct {
	createFunc         func(ctx context.Context, p *domain.Poll) error
	getViewFunc        func(ctx context.Context, pollID uuid.UUID) (*domain.PollView, error)
	listFunc           func(ctx context.Context, f domain.PollListFilter, now time.Time) ([]domain.PollView, int, error)
	listTrendingFunc   func(ctx context.Context, now time.Time, limit int) ([]domain.PollView, error)
	listEndingSoonFunc func(ctx context.Context, now time.Time, window time.Duration, limit int) ([]domain.PollView, error)
	statsFunc          func(ctx context.Context, now time.Time) (*domain.Stats, error)
}

func (m *mockPollRepo) Create(ctx context.Context, p *domain.Poll) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

func (m *mockPollRepo) GetView(ctx context.Context, pollID uuid.UUID) (*domain.PollView, error) {
	if m.getViewFunc != nil {
		return m.getViewFunc(ctx, pollID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPollRepo) List(ctx context.Context, f domain.PollListFilter, now time.Time) ([]domain.PollView, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, f, now)
	}
	return nil, 0, nil
}

func (m *mockPollRepo) ListTrending(ctx context.Context, now time.Time, limit int) ([]domain.PollView, error) {
	if m.listTrendingFunc != nil {
		return m.listTrendingFunc(ctx, now, limit)
	}
	return nil, nil
}

func (m *mockPollRepo) ListEndingSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]domain.PollView, error) {
	if m.listEndingSoonFunc != nil {
		return m.listEndingSoonFunc(ctx, now, window, limit)
	}
	return nil, nil
}

func (m *mockPollRepo) Stats(ctx context.Context, now time.Time) (*domain.Stats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, now)
	}
	return &domain.Stats{}, nil
}

// mockQuotaRepo counts units per (user, day) in memory, mirroring the
// guarded-upsert semantics of the real repository.
type mockQuotaRepo struct {
	tryIncrementFunc func(ctx context.Context, userID uuid.UUID, date time.Time, limit int) (bool, error)
	usedFunc         func(ctx context.Context, userID uuid.UUID, date time.Time) (int, error)
	counts           map[string]int
}

func (m *mockQuotaRepo) key(userID uuid.UUID, date time.Time) string {
	return userID.String() + "|" + date.Format("2006-01-02")
}

func (m *mockQuotaRepo) TryIncrement(ctx context.Context, userID uuid.UUID, date time.Time, limit int) (bool, error) {
	if m.tryIncrementFunc != nil {
		return m.tryIncrementFunc(ctx, userID, date, limit)
	}
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	if m.counts[m.key(userID, date)] >= limit {
		return false, nil
	}
	m.counts[m.key(userID, date)]++
	return true, nil
}

func (m *mockQuotaRepo) Used(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	if m.usedFunc != nil {
		return m.usedFunc(ctx, userID, date)
	}
	return m.counts[m.key(userID, date)], nil
}

type mockCategoryRepo struct {
	getByIDFunc func(ctx context.Context, categoryID uuid.UUID) (*domain.Category, error)
	listAllFunc func(ctx context.Context) ([]domain.Category, error)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, categoryID uuid.UUID) (*domain.Category, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, categoryID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCategoryRepo) ListAll(ctx context.Context) ([]domain.Category, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}

type mockVoteRepo struct {
	getForUserFunc     func(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error)
	choicesForUserFunc func(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]domain.VoteChoice, error)
}

func (m *mockVoteRepo) GetForUser(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error) {
	if m.getForUserFunc != nil {
		return m.getForUserFunc(ctx, userID, pollID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockVoteRepo) ChoicesForUser(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]domain.VoteChoice, error) {
	if m.choicesForUserFunc != nil {
		return m.choicesForUserFunc(ctx, userID, pollIDs)
	}
	return map[uuid.UUID]domain.VoteChoice{}, nil
}

type mockLikeRepo struct {
	getForUserFunc   func(ctx context.Context, userID, pollID uuid.UUID) (*domain.Like, error)
	likedForUserFunc func(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

func (m *mockLikeRepo) GetForUser(ctx context.Context, userID, pollID uuid.UUID) (*domain.Like, error) {
	if m.getForUserFunc != nil {
		return m.getForUserFunc(ctx, userID, pollID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockLikeRepo) LikedForUser(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if m.likedForUserFunc != nil {
		return m.likedForUserFunc(ctx, userID, pollIDs)
	}
	return map[uuid.UUID]bool{}, nil
}

type mockTxManager struct{}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testConfig() config.PollConfig {
	return config.PollConfig{
		Duration:         domain.DefaultPollDuration,
		DailyLimit:       domain.DailyPollLimit,
		QuestionMinLen:   10,
		QuestionMaxLen:   500,
		CommentMaxLen:    1000,
		EndingSoonWindow: 24 * time.Hour,
	}
}

func newTestService(polls *mockPollRepo, quotas *mockQuotaRepo, categories *mockCategoryRepo) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewService(logger, testConfig(), polls, quotas, categories, &mockVoteRepo{}, &mockLikeRepo{}, &mockTxManager{})
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestService_Create_HappyPath(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	var created *domain.Poll
	polls := &mockPollRepo{
		createFunc: func(ctx context.Context, p *domain.Poll) error {
			created = p
			return nil
		},
	}
	svc := newTestService(polls, &mockQuotaRepo{}, &mockCategoryRepo{})

	poll, err := svc.Create(context.Background(), CreateInput{
		UserID:   userID,
		Question: "  Is the Great Wall visible from space?  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("poll was not persisted")
	}
	if poll.Question != "Is the Great Wall visible from space?" {
		t.Errorf("question not trimmed: %q", poll.Question)
	}
	if poll.State != domain.PollStateActive {
		t.Errorf("expected active state, got %s", poll.State)
	}
	if got := poll.ExpiresAt.Sub(poll.CreatedAt); got != domain.DefaultPollDuration {
		t.Errorf("expected 7 day window, got %s", got)
	}
	if poll.TotalVotes() != 0 || poll.LikesCount != 0 || poll.CommentsCount != 0 {
		t.Errorf("counters must start at zero: %+v", poll)
	}
}

func TestService_Create_QuotaExhausted(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	quotas := &mockQuotaRepo{}
	svc := newTestService(&mockPollRepo{}, quotas, &mockCategoryRepo{})
	ctx := context.Background()

	// The first two creations of the day succeed, the third is denied.
	for i := 0; i < domain.DailyPollLimit; i++ {
		_, err := svc.Create(ctx, CreateInput{UserID: userID, Question: "Is this question number one of the day?"})
		if err != nil {
			t.Fatalf("creation %d: unexpected error: %v", i+1, err)
		}
	}

	_, err := svc.Create(ctx, CreateInput{UserID: userID, Question: "Is this one creation over the limit?"})
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestService_Create_EditorBypassesQuota(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	incremented := false
	quotas := &mockQuotaRepo{
		tryIncrementFunc: func(ctx context.Context, uid uuid.UUID, date time.Time, limit int) (bool, error) {
			incremented = true
			return false, nil
		},
	}
	svc := newTestService(&mockPollRepo{}, quotas, &mockCategoryRepo{})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := svc.Create(ctx, CreateInput{
			UserID:   userID,
			IsEditor: true,
			Question: "Does the editor get to ask unlimited questions?",
		})
		if err != nil {
			t.Fatalf("editor creation %d: unexpected error: %v", i+1, err)
		}
	}

	if incremented {
		t.Error("editor creations must not consume quota")
	}
}

func TestService_Create_QuotaNotRefundedOnFailure(t *testing.T) {
	t.Parallel()

	// A consumed unit stays consumed for the day even if nothing else
	// happens with it; only a rolled-back transaction returns it, which the
	// real TxManager handles. With a pass-through tx the unit stays claimed.
	userID := uuid.New()
	quotas := &mockQuotaRepo{}
	polls := &mockPollRepo{
		createFunc: func(ctx context.Context, p *domain.Poll) error {
			return errors.New("disk full")
		},
	}
	svc := newTestService(polls, quotas, &mockCategoryRepo{})

	_, err := svc.Create(context.Background(), CreateInput{UserID: userID, Question: "Will this creation fail after the claim?"})
	if err == nil {
		t.Fatal("expected error")
	}

	used, _ := quotas.Used(context.Background(), userID, domain.QuotaDate(time.Now()))
	if used != 1 {
		t.Errorf("expected the claim to have happened inside the unit of work, used=%d", used)
	}
}

func TestService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPollRepo{}, &mockQuotaRepo{}, &mockCategoryRepo{})
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing user", CreateInput{Question: "Is a question without an author valid?"}},
		{"empty question", CreateInput{UserID: uuid.New(), Question: "   "}},
		{"too short", CreateInput{UserID: uuid.New(), Question: "Short?"}},
		{"too long", CreateInput{UserID: uuid.New(), Question: strings.Repeat("x", 501)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestService_Create_UnknownCategory(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPollRepo{}, &mockQuotaRepo{}, &mockCategoryRepo{})
	categoryID := uuid.New()

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:     uuid.New(),
		Question:   "Does this poll point at a missing category?",
		CategoryID: &categoryID,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// RemainingQuota
// ---------------------------------------------------------------------------

func TestService_RemainingQuota(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	quotas := &mockQuotaRepo{}
	svc := newTestService(&mockPollRepo{}, quotas, &mockCategoryRepo{})
	ctx := context.Background()

	status, err := svc.RemainingQuota(ctx, userID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Used != 0 || status.Remaining != domain.DailyPollLimit {
		t.Errorf("fresh day: expected used=0 remaining=%d, got %+v", domain.DailyPollLimit, status)
	}

	if _, err := svc.Create(ctx, CreateInput{UserID: userID, Question: "Does reading the quota consume a unit?"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	status, err = svc.RemainingQuota(ctx, userID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Used != 1 || status.Remaining != domain.DailyPollLimit-1 {
		t.Errorf("after one creation: got %+v", status)
	}

	// Reading repeatedly never changes the numbers.
	for i := 0; i < 3; i++ {
		again, err := svc.RemainingQuota(ctx, userID, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *again != *status {
			t.Errorf("read %d mutated quota: %+v vs %+v", i, again, status)
		}
	}
}

func TestService_RemainingQuota_Editor(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPollRepo{}, &mockQuotaRepo{}, &mockCategoryRepo{})

	status, err := svc.RemainingQuota(context.Background(), uuid.New(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Exempt || status.Remaining != domain.DailyPollLimit {
		t.Errorf("editor must read as exempt: %+v", status)
	}
}

// ---------------------------------------------------------------------------
// Get / List
// ---------------------------------------------------------------------------

func TestService_Get_DerivesPercentages(t *testing.T) {
	t.Parallel()

	pollID := uuid.New()
	polls := &mockPollRepo{
		getViewFunc: func(ctx context.Context, id uuid.UUID) (*domain.PollView, error) {
			v := &domain.PollView{}
			v.ID = id
			v.TrueVotes = 5
			v.LegendVotes = 3
			v.ExpiresAt = time.Now().Add(time.Hour)
			return v, nil
		},
	}
	svc := newTestService(polls, &mockQuotaRepo{}, &mockCategoryRepo{})

	view, err := svc.Get(context.Background(), pollID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 5/8 = 62.5%, rounded half up.
	if view.TruePercentage != 63 || view.LegendPercentage != 37 {
		t.Errorf("expected 63/37, got %d/%d", view.TruePercentage, view.LegendPercentage)
	}
	if view.SecondsLeft <= 0 {
		t.Errorf("expected positive seconds left, got %f", view.SecondsLeft)
	}
	if view.ViewerChoice != nil || view.ViewerLiked {
		t.Errorf("anonymous viewer must get zero annotations: %+v", view)
	}
}

func TestService_Get_ViewerAnnotations(t *testing.T) {
	t.Parallel()

	pollID := uuid.New()
	viewerID := uuid.New()
	polls := &mockPollRepo{
		getViewFunc: func(ctx context.Context, id uuid.UUID) (*domain.PollView, error) {
			v := &domain.PollView{}
			v.ID = id
			return v, nil
		},
	}
	votes := &mockVoteRepo{
		getForUserFunc: func(ctx context.Context, uid, pid uuid.UUID) (*domain.Vote, error) {
			return &domain.Vote{Choice: domain.VoteChoiceLegend}, nil
		},
	}
	likes := &mockLikeRepo{
		getForUserFunc: func(ctx context.Context, uid, pid uuid.UUID) (*domain.Like, error) {
			return &domain.Like{}, nil
		},
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	svc := NewService(logger, testConfig(), polls, &mockQuotaRepo{}, &mockCategoryRepo{}, votes, likes, &mockTxManager{})

	view, err := svc.Get(context.Background(), pollID, &viewerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.ViewerChoice == nil || *view.ViewerChoice != domain.VoteChoiceLegend {
		t.Errorf("expected viewer choice legend, got %v", view.ViewerChoice)
	}
	if !view.ViewerLiked {
		t.Error("expected viewer liked")
	}
}

func TestService_List_Pagination(t *testing.T) {
	t.Parallel()

	var gotFilter domain.PollListFilter
	polls := &mockPollRepo{
		listFunc: func(ctx context.Context, f domain.PollListFilter, now time.Time) ([]domain.PollView, int, error) {
			gotFilter = f
			return make([]domain.PollView, f.Limit), 45, nil
		},
	}
	svc := newTestService(polls, &mockQuotaRepo{}, &mockCategoryRepo{})

	views, page, err := svc.List(context.Background(), ListInput{Page: 2, PerPage: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotFilter.Limit != 20 || gotFilter.Offset != 20 {
		t.Errorf("expected limit=20 offset=20, got %+v", gotFilter)
	}
	if len(views) != 20 {
		t.Errorf("expected 20 views, got %d", len(views))
	}
	if page.Total != 45 || !page.HasNext || !page.HasPrev {
		t.Errorf("unexpected page info: %+v", page)
	}
}

func TestService_List_RejectsBadInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPollRepo{}, &mockQuotaRepo{}, &mockCategoryRepo{})

	_, _, err := svc.List(context.Background(), ListInput{PerPage: 101})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for oversized page, got %v", err)
	}

	_, _, err = svc.List(context.Background(), ListInput{Status: domain.PollStatusFilter("closed")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}
}
