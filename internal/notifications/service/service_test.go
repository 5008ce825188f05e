package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/notifications/domain"
)

type memStore struct {
	mu    sync.Mutex
	items []*domain.Notification
	clock time.Time
	fail  error
}

func (m *memStore) Create(_ context.Context, in domain.CreateInput) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	m.clock = m.clock.Add(time.Second)
	n := &domain.Notification{ID: uuid.New(), UserID: in.UserID, Type: in.Type, Title: in.Title,
		Message: in.Message, ProjectID: in.ProjectID, Metadata: in.Metadata, CreatedAt: m.clock}
	m.items = append(m.items, n)
	return n, nil
}

func (m *memStore) List(_ context.Context, userID string, f domain.ListFilter) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Notification{}
	for _, n := range m.items {
		if n.UserID == userID && (!f.UnreadOnly || !n.IsRead) {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset >= len(out) {
		return []domain.Notification{}, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) CountUnread(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := 0
	for _, n := range m.items {
		if n.UserID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (m *memStore) MarkRead(_ context.Context, userID string, id uuid.UUID) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.ID == id && n.UserID == userID {
			if !n.IsRead {
				at := m.clock
				n.IsRead, n.ReadAt = true, &at
			}
			cp := *n
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) MarkAllRead(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for _, n := range m.items {
		if n.UserID == userID && !n.IsRead {
			at := m.clock
			n.IsRead, n.ReadAt = true, &at
			c++
		}
	}
	return c, nil
}

func (m *memStore) Delete(_ context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.items {
		if n.ID == id && n.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) PurgeRead(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	var c int64
	for _, n := range m.items {
		if n.IsRead && n.ReadAt.Before(before) {
			c++
			continue
		}
		kept = append(kept, n)
	}
	m.items = kept
	return c, nil
}

func TestServiceCreateValidation(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateInput{UserID: "u1", Title: "  "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(ctx, domain.CreateInput{Title: "Hi"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(ctx, domain.CreateInput{UserID: "u1", Title: "Hi", Type: "party"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	n, err := svc.Create(ctx, domain.CreateInput{UserID: "u1", Title: " Hi "})
	require.NoError(t, err)
	assert.Equal(t, domain.TypeSystem, n.Type)
	assert.Equal(t, "Hi", n.Title)
}

func TestServiceReadFlow(t *testing.T) {
	store := &memStore{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewService(store)
	ctx := context.Background()

	var ids []uuid.UUID
	for _, title := range []string{"first", "second", "third"} {
		n, err := svc.Create(ctx, domain.CreateInput{UserID: "u1", Type: domain.TypeProposalViewed, Title: title})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	_, err := svc.Create(ctx, domain.CreateInput{UserID: "u2", Title: "other"})
	require.NoError(t, err)

	items, err := svc.List(ctx, "u1", domain.ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "third", items[0].Title)

	read, err := svc.MarkRead(ctx, "u1", ids[0])
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = svc.MarkRead(ctx, "u2", ids[1])
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	unread, err := svc.List(ctx, "u1", domain.ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	n, err := svc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, svc.Delete(ctx, "u1", ids[2]))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(ctx, "u1", ids[2])))
}

func TestServicePurgeRead(t *testing.T) {
	store := &memStore{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	old, err := svc.Create(ctx, domain.CreateInput{UserID: "u1", Title: "old"})
	require.NoError(t, err)
	_, err = svc.MarkRead(ctx, "u1", old.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateInput{UserID: "u1", Title: "unread"})
	require.NoError(t, err)

	_, err = svc.PurgeRead(ctx, 0)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	n, err := svc.PurgeRead(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestServiceStorageFailure(t *testing.T) {
	svc := NewService(&memStore{fail: errors.New("connection reset")})
	_, err := svc.Create(context.Background(), domain.CreateInput{UserID: "u1", Title: "x"})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
