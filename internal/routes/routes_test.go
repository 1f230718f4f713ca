package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kanban-board-api/internal/handlers"
	"kanban-board-api/internal/realtime"
	"kanban-board-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newHandler() http.Handler {
	gin.SetMode(gin.TestMode)
	hub := realtime.NewHub()
	return Handler(handlers.NewTaskHandler(testutil.NewMemoryStore(nil), hub), hub)
}

func TestHealth(t *testing.T) {
	r := newHandler()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestTasksRoute_CORSAndTotal(t *testing.T) {
	r := newHandler()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "3", w.Header().Get("X-Total-Count"))
}

func TestPreflight(t *testing.T) {
	r := newHandler()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/tasks/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPlainOptions(t *testing.T) {
	r := newHandler()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/columns", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTaskByIDRoute(t *testing.T) {
	r := newHandler()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/2", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/tasks/nope", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
