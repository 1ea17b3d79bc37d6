package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chiragthakuri/time-tracker/internal/adapters/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okChecker struct{}

func (okChecker) Check(context.Context) error { return nil }

type pingMounter struct{}

func (pingMounter) Mount(api *gin.RouterGroup) {
	api.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(handler.RequestIDKey))
	})
}

func newTestRouter() http.Handler {
	return New(Options{
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		Health:             handler.NewHealthHandler(okChecker{}, nil),
		Resources:          []Mounter{pingMounter{}},
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		AccessLog:          true,
	})
}

func TestRouter_RequestID(t *testing.T) {
	h := newTestRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.Body.String())

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, incoming, rec.Header().Get(RequestIDHeader))
}

func TestRouter_CaseInsensitiveRedirect(t *testing.T) {
	h := newTestRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/API/Ping", nil))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/api/ping", rec.Header().Get("Location"))
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	h := newTestRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "timetracker_http_requests_total"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
