package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyPollLimit is the number of polls a non-editor may create per
// calendar day. Editors are exempt.
const DailyPollLimit = 2

// DailyQuota counts poll creations per (user, day). The count only grows:
// deleting or archiving a poll does not return allowance.
type DailyQuota struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PollDate  time.Time
	PollCount int
}

// QuotaDate truncates a timestamp to the calendar day used as the quota key.
func QuotaDate(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
