package poll

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gercekmi/gercekmi-backend/internal/domain"
)

const (
	// MaxPerPage caps a single list page.
	MaxPerPage     = 100
	defaultPerPage = 20
	defaultLimit   = 10
)

// ---------------------------------------------------------------------------
// CreateInput
// ---------------------------------------------------------------------------

// CreateInput holds the parameters for creating a poll. IsEditor is the
// caller-asserted role of the authenticated user; editors bypass the daily
// quota.
type CreateInput struct {
	UserID     uuid.UUID
	IsEditor   bool
	Question   string
	CategoryID *uuid.UUID
}

// Validate checks all fields and collects all errors. Length limits apply
// to the trimmed question.
func (i CreateInput) Validate(minLen, maxLen int) error {
	var errs []domain.FieldError

	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}

	question := strings.TrimSpace(i.Question)
	if question == "" {
		errs = append(errs, domain.FieldError{Field: "question", Message: "required"})
	} else if utf8.RuneCountInString(question) < minLen {
		errs = append(errs, domain.FieldError{Field: "question", Message: fmt.Sprintf("too short (min %d)", minLen)})
	} else if utf8.RuneCountInString(question) > maxLen {
		errs = append(errs, domain.FieldError{Field: "question", Message: fmt.Sprintf("too long (max %d)", maxLen)})
	}

	if i.CategoryID != nil && *i.CategoryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "category_id", Message: "must not be the zero id"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ---------------------------------------------------------------------------
// ListInput
// ---------------------------------------------------------------------------

// ListInput holds the parameters for the ranked poll listings. ViewerID is
// optional; when set the returned views carry the viewer's vote and like.
type ListInput struct {
	Status     domain.PollStatusFilter
	CategoryID *uuid.UUID
	Page       int
	PerPage    int
	ViewerID   *uuid.UUID
}

// Validate checks the filter and normalizes pagination defaults in place.
func (i *ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != "" && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", i.Status)})
	}

	if i.Page < 0 {
		errs = append(errs, domain.FieldError{Field: "page", Message: "must be positive"})
	} else if i.Page == 0 {
		i.Page = 1
	}

	if i.PerPage < 0 || i.PerPage > MaxPerPage {
		errs = append(errs, domain.FieldError{Field: "per_page", Message: fmt.Sprintf("must be between 1 and %d", MaxPerPage)})
	} else if i.PerPage == 0 {
		i.PerPage = defaultPerPage
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
