package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is owned by the external auth collaborator. The engine only reads it:
// identity, the editor privilege (quota exemption and ranking boost), and
// the active flag.
type User struct {
	ID          uuid.UUID
	Username    string
	DisplayName *string
	AvatarURL   *string
	IsEditor    bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category is static catalog reference data for polls.
type Category struct {
	ID        uuid.UUID
	Name      string
	Icon      *string
	Color     *string
	CreatedAt time.Time
}
