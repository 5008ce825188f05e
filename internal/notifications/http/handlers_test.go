package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepfy/nepfy-backend/internal/auth"
	"github.com/nepfy/nepfy-backend/internal/notifications/domain"
	"github.com/nepfy/nepfy-backend/internal/notifications/service"
)

type memStore struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (m *memStore) Create(_ context.Context, in domain.CreateInput) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := domain.Notification{ID: uuid.New(), UserID: in.UserID, Type: in.Type, Title: in.Title, CreatedAt: time.Now()}
	m.items = append(m.items, n)
	return &n, nil
}

func (m *memStore) List(_ context.Context, userID string, f domain.ListFilter) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Notification{}
	for _, n := range m.items {
		if n.UserID == userID && (!f.UnreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memStore) CountUnread(ctx context.Context, userID string) (int, error) {
	items, _ := m.List(ctx, userID, domain.ListFilter{UnreadOnly: true})
	return len(items), nil
}

func (m *memStore) MarkRead(_ context.Context, userID string, id uuid.UUID) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].UserID == userID {
			m.items[i].IsRead = true
			n := m.items[i]
			return &n, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) MarkAllRead(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for i := range m.items {
		if m.items[i].UserID == userID && !m.items[i].IsRead {
			m.items[i].IsRead = true
			c++
		}
	}
	return c, nil
}

func (m *memStore) Delete(_ context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) PurgeRead(context.Context, time.Time) (int64, error) { return 0, nil }

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(service.NewService(&memStore{}))

	r := gin.New()
	user := r.Group("/notifications", func(c *gin.Context) {
		c.Set(auth.CtxFirebaseUID, c.GetHeader("X-User-Id"))
	})
	h.Register(user)
	h.RegisterAdmin(r.Group("/admin/notifications"))
	return r
}

func call(r *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", user)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestNotificationRoutes(t *testing.T) {
	r := setupRouter()

	rr := call(r, http.MethodPost, "/notifications", "u1", `{"type":"system","title":"Welcome","user_id":"someone-else"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		Data domain.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "u1", created.Data.UserID)

	rr = call(r, http.MethodPost, "/admin/notifications", "", `{"type":"billing","title":"Invoice","user_id":"u1"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = call(r, http.MethodGet, "/notifications/unread-count", "u1", "")
	assert.JSONEq(t, `{"success":true,"data":{"count":2}}`, rr.Body.String())

	rr = call(r, http.MethodPost, "/notifications/"+created.Data.ID.String()+"/read", "u1", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = call(r, http.MethodPost, "/notifications/"+created.Data.ID.String()+"/read", "u2", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = call(r, http.MethodGet, "/notifications?unread=true", "u1", "")
	assert.Contains(t, rr.Body.String(), "Invoice")
	assert.NotContains(t, rr.Body.String(), "Welcome")

	rr = call(r, http.MethodPost, "/notifications/read-all", "u1", "")
	assert.JSONEq(t, `{"success":true,"data":{"updated":1}}`, rr.Body.String())

	rr = call(r, http.MethodDelete, "/notifications/"+created.Data.ID.String(), "u1", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = call(r, http.MethodDelete, "/notifications/not-a-uuid", "u1", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotificationCreateRejectsBadBody(t *testing.T) {
	r := setupRouter()

	rr := call(r, http.MethodPost, "/notifications", "u1", `{"type":"system"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(r, http.MethodPost, "/admin/notifications", "", `{"type":"system","title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
