package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/logging"
	"github.com/nepfy/nepfy-backend/internal/notifications/domain"
)

type Store interface {
	Create(ctx context.Context, in domain.CreateInput) (*domain.Notification, error)
	List(ctx context.Context, userID string, f domain.ListFilter) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID string, id uuid.UUID) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	PurgeRead(ctx context.Context, before time.Time) (int64, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, in domain.CreateInput) (*domain.Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.UserID == "" {
		return nil, apperr.Validation("user_id is required")
	}
	if in.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if in.Type == "" {
		in.Type = domain.TypeSystem
	}
	if !in.Type.Valid() {
		return nil, apperr.Validation("unknown notification type %q", in.Type)
	}

	n, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, translate(err)
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, userID string, f domain.ListFilter) ([]domain.Notification, error) {
	f.Normalize()
	items, err := s.store.List(ctx, userID, f)
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := s.store.CountUnread(ctx, userID)
	return n, translate(err)
}

func (s *Service) MarkRead(ctx context.Context, userID string, id uuid.UUID) (*domain.Notification, error) {
	n, err := s.store.MarkRead(ctx, userID, id)
	if err != nil {
		return nil, translate(err)
	}
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.MarkAllRead(ctx, userID)
	return n, translate(err)
}

func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return translate(s.store.Delete(ctx, userID, id))
}

// PurgeRead deletes read notifications older than retention.
func (s *Service) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, apperr.Validation("retention must be positive")
	}
	n, err := s.store.PurgeRead(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, translate(err)
	}
	logging.FromContext(ctx).Info("read notifications purged", "deleted", n, "retention", retention)
	return n, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, "notification not found", err)
	default:
		return apperr.Internal("notification storage", err)
	}
}
