package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, h *HealthHandler, method string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	h.RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, "/health", nil))

	var resp HealthResponse
	if rr.Code != http.StatusMethodNotAllowed {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestHealthCheck(t *testing.T) {
	rr, resp := serveHealth(t, NewHealthHandler("test-service", "1.0.0", nil, nil), http.MethodGet)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test-service", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "disabled", resp.DB)
	assert.Equal(t, "disabled", resp.Redis)
}

func TestHealthCheckDependencies(t *testing.T) {
	up := RedisPinger(func(context.Context) error { return nil })
	down := RedisPinger(func(context.Context) error { return errors.New("refused") })

	rr, resp := serveHealth(t, NewHealthHandler("svc", "v", up, down), http.MethodGet)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "up", resp.DB)
	assert.Equal(t, "down", resp.Redis)

	rr, resp = serveHealth(t, NewHealthHandler("svc", "v", down, up), http.MethodGet)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "degraded", resp.Status)
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	rr, _ := serveHealth(t, NewHealthHandler("test-service", "1.0.0", nil, nil), http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
