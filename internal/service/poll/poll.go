package poll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

// QuotaStatus reports a user's standing against the daily creation limit.
// Exempt users (editors) always read as unconstrained.
type QuotaStatus struct {
	DailyLimit int
	Used       int
	Remaining  int
	Exempt     bool
}

// Create creates an active poll on behalf of a user.
//
// For non-editors the quota claim and the poll insert run in one transaction:
// if the insert fails the claimed unit is rolled back, and two concurrent
// creations at the last unit cannot both succeed because the claim itself is
// a guarded upsert. Quota units are never returned once committed.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Poll, error) {
	if err := input.Validate(s.cfg.QuestionMinLen, s.cfg.QuestionMaxLen); err != nil {
		return nil, err
	}

	now := s.now()
	poll := &domain.Poll{
		ID:         uuid.New(),
		UserID:     input.UserID,
		CategoryID: input.CategoryID,
		Question:   strings.TrimSpace(input.Question),
		State:      domain.PollStateActive,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.cfg.Duration),
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if !input.IsEditor {
			ok, err := s.quotas.TryIncrement(txCtx, input.UserID, domain.QuotaDate(now), s.cfg.DailyLimit)
			if err != nil {
				return fmt.Errorf("claim quota: %w", err)
			}
			if !ok {
				return fmt.Errorf("user %s: %w", input.UserID, domain.ErrQuotaExceeded)
			}
		}

		if input.CategoryID != nil {
			if _, err := s.categories.GetByID(txCtx, *input.CategoryID); err != nil {
				return fmt.Errorf("resolve category: %w", err)
			}
		}

		return s.polls.Create(txCtx, poll)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "poll created",
		slog.String("poll_id", poll.ID.String()),
		slog.String("user_id", input.UserID.String()),
		slog.Bool("editor", input.IsEditor),
	)

	return poll, nil
}

// Get returns a single poll view with derived fields, annotated for the
// viewer when one is given.
func (s *Service) Get(ctx context.Context, pollID uuid.UUID, viewerID *uuid.UUID) (*domain.PollView, error) {
	view, err := s.polls.GetView(ctx, pollID)
	if err != nil {
		return nil, err
	}

	view.Derive(s.now())
	if err := s.annotateOne(ctx, view, viewerID); err != nil {
		return nil, err
	}

	return view, nil
}

// List returns a ranked page of polls.
//
// The active projection orders editor-authored polls first, then by likes,
// then by recency; the archived projection orders by expiry, most recently
// closed first. Expired polls the sweeper has not archived yet never appear
// in the active projection.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.PollView, domain.PageInfo, error) {
	if err := input.Validate(); err != nil {
		return nil, domain.PageInfo{}, err
	}

	now := s.now()
	filter := domain.PollListFilter{
		Status:     input.Status,
		CategoryID: input.CategoryID,
		Limit:      input.PerPage,
		Offset:     (input.Page - 1) * input.PerPage,
	}

	views, total, err := s.polls.List(ctx, filter, now)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}

	for i := range views {
		views[i].Derive(now)
	}
	if err := s.annotateBatch(ctx, views, input.ViewerID); err != nil {
		return nil, domain.PageInfo{}, err
	}

	return views, domain.NewPageInfo(total, input.Page, input.PerPage), nil
}

// ListTrending returns the most engaged active polls, ranked by the sum of
// votes and likes.
func (s *Service) ListTrending(ctx context.Context, limit int, viewerID *uuid.UUID) ([]domain.PollView, error) {
	if limit <= 0 || limit > MaxPerPage {
		limit = defaultLimit
	}

	now := s.now()
	views, err := s.polls.ListTrending(ctx, now, limit)
	if err != nil {
		return nil, err
	}

	for i := range views {
		views[i].Derive(now)
	}
	if err := s.annotateBatch(ctx, views, viewerID); err != nil {
		return nil, err
	}

	return views, nil
}

// ListEndingSoon returns active polls whose voting window closes within the
// configured horizon, soonest first.
func (s *Service) ListEndingSoon(ctx context.Context, limit int, viewerID *uuid.UUID) ([]domain.PollView, error) {
	if limit <= 0 || limit > MaxPerPage {
		limit = defaultLimit
	}

	now := s.now()
	views, err := s.polls.ListEndingSoon(ctx, now, s.cfg.EndingSoonWindow, limit)
	if err != nil {
		return nil, err
	}

	for i := range views {
		views[i].Derive(now)
	}
	if err := s.annotateBatch(ctx, views, viewerID); err != nil {
		return nil, err
	}

	return views, nil
}

// RemainingQuota reports how much of today's creation allowance is left.
// Reading never consumes a unit.
func (s *Service) RemainingQuota(ctx context.Context, userID uuid.UUID, isEditor bool) (*QuotaStatus, error) {
	status := &QuotaStatus{DailyLimit: s.cfg.DailyLimit, Exempt: isEditor}

	used, err := s.quotas.Used(ctx, userID, domain.QuotaDate(s.now()))
	if err != nil {
		return nil, err
	}
	status.Used = used

	if isEditor {
		status.Remaining = s.cfg.DailyLimit
		return status, nil
	}

	status.Remaining = s.cfg.DailyLimit - used
	if status.Remaining < 0 {
		status.Remaining = 0
	}

	return status, nil
}

// Categories returns the category catalog.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListAll(ctx)
}

// Stats returns platform-wide totals.
func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.polls.Stats(ctx, s.now())
}
