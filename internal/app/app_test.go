package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/chiragthakuri/time-tracker/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type employeeBody struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	Projects  []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"projects"`
}

type projectBody struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	EmployeeID  *int64  `json:"employeeId"`
}

type client struct {
	t *testing.T
	h http.Handler
}

func newClient(t *testing.T) *client {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{ListenAddr: ":0"},
		Logger: config.LoggerConfig{Level: "error", Format: "text"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			SQLiteDSN:   "file::memory:",
			AutoMigrate: true,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return &client{t: t, h: a.Handler}
}

func (c *client) do(method, target, contentType string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	return rec
}

func (c *client) json(method, target string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(method, target, "application/json", body)
}

func (c *client) patch(target string, ops ...map[string]any) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(http.MethodPatch, target, "application/json-patch+json", ops)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func employeePath(id int64) string {
	return "/api/employee/" + strconv.FormatInt(id, 10)
}

func projectPath(id int64) string {
	return "/api/project/" + strconv.FormatInt(id, 10)
}

func TestEmployeeLifecycle(t *testing.T) {
	c := newClient(t)

	rec := c.json(http.MethodPost, "/api/employee", map[string]any{"name": "Alice", "startDate": "2024-01-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[employeeBody](t, rec)
	require.Positive(t, created.ID)
	assert.Equal(t, employeePath(created.ID), rec.Header().Get("Location"))

	rec = c.json(http.MethodGet, employeePath(created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[employeeBody](t, rec)
	assert.Equal(t, "Alice", found.Name)
	assert.Equal(t, "2024-01-01", found.StartDate)
	assert.NotNil(t, found.Projects)

	rec = c.json(http.MethodDelete, employeePath(created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = c.json(http.MethodGet, employeePath(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.json(http.MethodDelete, employeePath(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployeePatchReplaceName(t *testing.T) {
	c := newClient(t)

	created := decode[employeeBody](t, c.json(http.MethodPost, "/api/employee", map[string]any{"name": "Alice", "startDate": "2024-01-01"}))

	rec := c.patch(employeePath(created.ID), map[string]any{"op": "replace", "path": "/name", "value": "Bob"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	found := decode[employeeBody](t, c.json(http.MethodGet, employeePath(created.ID), nil))
	assert.Equal(t, "Bob", found.Name)
	assert.Equal(t, "2024-01-01", found.StartDate)
	assert.Equal(t, created.ID, found.ID)
}

func TestEmployeePatchFailures(t *testing.T) {
	c := newClient(t)

	created := decode[employeeBody](t, c.json(http.MethodPost, "/api/employee", map[string]any{"name": "Alice", "startDate": "2024-01-01"}))
	path := employeePath(created.ID)

	rec := c.patch(path,
		map[string]any{"op": "replace", "path": "/name", "value": "Bob"},
		map[string]any{"op": "test", "path": "/name", "value": "Alice"},
	)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "operation 1")

	rec = c.patch(path, map[string]any{"op": "replace", "path": "/missing", "value": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.patch(path,
		map[string]any{"op": "test", "path": "/name", "value": "Alice"},
		map[string]any{"op": "add", "path": "/nickname", "value": "Al"},
	)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "operation 1")
	assert.Contains(t, rec.Body.String(), "nickname")

	rec = c.patch(path, map[string]any{"op": "remove", "path": "/name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.patch(path, map[string]any{"op": "replace", "path": "/startDate", "value": "not-a-date"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.patch(employeePath(created.ID+100), map[string]any{"op": "replace", "path": "/name", "value": "Bob"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	found := decode[employeeBody](t, c.json(http.MethodGet, path, nil))
	assert.Equal(t, "Alice", found.Name, "failed patches must not write")
}

func TestEmployeeReplace(t *testing.T) {
	c := newClient(t)

	rec := c.json(http.MethodPut, employeePath(999), map[string]any{"name": "Ghost", "startDate": "2024-01-01"})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	created := decode[employeeBody](t, c.json(http.MethodPost, "/api/employee", map[string]any{"name": "Alice", "startDate": "2024-01-01"}))
	payload := map[string]any{"id": 12345, "name": "Alicia", "startDate": "2023-05-06"}

	for i := 0; i < 2; i++ {
		rec = c.json(http.MethodPut, employeePath(created.ID), payload)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		found := decode[employeeBody](t, c.json(http.MethodGet, employeePath(created.ID), nil))
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Alicia", found.Name)
		assert.Equal(t, "2023-05-06", found.StartDate)
	}

	rec = c.json(http.MethodPut, employeePath(created.ID), map[string]any{"startDate": "2023-05-06"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployeeValidation(t *testing.T) {
	c := newClient(t)

	rec := c.json(http.MethodPost, "/api/employee", map[string]any{"startDate": "2024-01-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = c.json(http.MethodPost, "/api/employee", map[string]any{"name": "Alice", "startDate": "01/01/2024"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.json(http.MethodGet, "/api/employee/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.json(http.MethodGet, "/api/employee/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.json(http.MethodGet, "/api/employee", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProjectOwnership(t *testing.T) {
	c := newClient(t)

	owner := decode[employeeBody](t, c.json(http.MethodPost, "/api/employee", map[string]any{"name": "Alice", "startDate": "2024-01-01"}))

	rec := c.json(http.MethodPost, "/api/project", map[string]any{"name": "Apollo", "description": "moon", "employeeId": owner.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	apollo := decode[projectBody](t, rec)
	require.NotNil(t, apollo.EmployeeID)
	assert.Equal(t, owner.ID, *apollo.EmployeeID)

	found := decode[employeeBody](t, c.json(http.MethodGet, employeePath(owner.ID), nil))
	require.Len(t, found.Projects, 1)
	assert.Equal(t, "Apollo", found.Projects[0].Name)

	// projects は読み取り専用
	rec = c.patch(employeePath(owner.ID), map[string]any{"op": "remove", "path": "/projects/0"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	found = decode[employeeBody](t, c.json(http.MethodGet, employeePath(owner.ID), nil))
	assert.Len(t, found.Projects, 1)

	rec = c.patch(projectPath(apollo.ID),
		map[string]any{"op": "replace", "path": "/employeeId", "value": nil},
		map[string]any{"op": "set", "path": "/description", "value": "far side"},
	)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	patched := decode[projectBody](t, c.json(http.MethodGet, projectPath(apollo.ID), nil))
	assert.Nil(t, patched.EmployeeID)
	require.NotNil(t, patched.Description)
	assert.Equal(t, "far side", *patched.Description)
	assert.Equal(t, "Apollo", patched.Name)

	found = decode[employeeBody](t, c.json(http.MethodGet, employeePath(owner.ID), nil))
	assert.Empty(t, found.Projects)
}

func TestProjectSurvivesOwnerDeletion(t *testing.T) {
	c := newClient(t)

	owner := decode[employeeBody](t, c.json(http.MethodPost, "/api/employee", map[string]any{"name": "Alice", "startDate": "2024-01-01"}))
	apollo := decode[projectBody](t, c.json(http.MethodPost, "/api/project", map[string]any{"name": "Apollo", "employeeId": owner.ID}))

	require.Equal(t, http.StatusNoContent, c.json(http.MethodDelete, employeePath(owner.ID), nil).Code)

	rec := c.json(http.MethodGet, projectPath(apollo.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[projectBody](t, rec).EmployeeID)

	rec = c.json(http.MethodGet, "/api/project", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]projectBody](t, rec), 1)
}

func TestProjectUnknownOwnerIsPersistenceError(t *testing.T) {
	c := newClient(t)

	rec := c.json(http.MethodPost, "/api/project", map[string]any{"name": "Apollo", "employeeId": 404})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "FOREIGN KEY")
}

func TestCaseInsensitiveCollectionPath(t *testing.T) {
	c := newClient(t)

	rec := c.json(http.MethodGet, "/api/Employee", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/api/employee", rec.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	c := newClient(t)

	rec := c.json(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
