package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypeProposalViewed   Type = "proposal_viewed"
	TypeProposalAccepted Type = "proposal_accepted"
	TypeProposalFeedback Type = "proposal_feedback"
	TypeBilling          Type = "billing"
	TypeSystem           Type = "system"
)

func (t Type) Valid() bool {
	switch t {
	case TypeProposalViewed, TypeProposalAccepted, TypeProposalFeedback, TypeBilling, TypeSystem:
		return true
	}
	return false
}

type Notification struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    string         `json:"user_id" db:"user_id"`
	Type      Type           `json:"type" db:"type"`
	Title     string         `json:"title" db:"title"`
	Message   string         `json:"message" db:"message"`
	ProjectID *uuid.UUID     `json:"project_id,omitempty" db:"project_id"`
	Metadata  map[string]any `json:"metadata,omitempty" db:"metadata"`
	IsRead    bool           `json:"is_read" db:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

type CreateInput struct {
	UserID    string         `json:"user_id"`
	Type      Type           `json:"type" binding:"required"`
	Title     string         `json:"title" binding:"required,max=200"`
	Message   string         `json:"message" binding:"max=2000"`
	ProjectID *uuid.UUID     `json:"project_id"`
	Metadata  map[string]any `json:"metadata"`
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type ListFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Normalize clamps the paging values into their allowed range.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
