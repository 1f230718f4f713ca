// Package proxy serves the board API by forwarding to a json-server style
// upstream instead of a local store. Clients see the same routes, bodies and
// status codes as with the local handlers.
package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kanban-board-api/internal/cache"
	"kanban-board-api/internal/handlers"
	"kanban-board-api/internal/models"
	"kanban-board-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

const columnsTTL = 30 * time.Second

// Forwarder relays the task and column routes to an upstream server.
type Forwarder struct {
	upstream *url.URL
	client   *http.Client
	hub      *realtime.Hub
	columns  cache.Cache[string, []byte]
}

// New returns a Forwarder for the upstream base URL (e.g.
// http://127.0.0.1:4000). hub may be nil.
func New(upstream string, timeout time.Duration, hub *realtime.Hub) (*Forwarder, error) {
	u, err := url.Parse(strings.TrimRight(upstream, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream url %q", upstream)
	}
	return &Forwarder{
		upstream: u,
		client:   &http.Client{Timeout: timeout},
		hub:      hub,
		columns:  cache.NewTTL[string, []byte](),
	}, nil
}

// upstreamResponse is a fully read upstream reply.
type upstreamResponse struct {
	status int
	header http.Header
	body   []byte
}

func (r *upstreamResponse) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (f *Forwarder) do(c *gin.Context, method, path, rawQuery string, body []byte) (*upstreamResponse, error) {
	target := *f.upstream
	target.Path = f.upstream.Path + path
	target.RawQuery = rawQuery

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &upstreamResponse{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// fail logs the cause and answers with the fixed error body.
func fail(c *gin.Context, status int, message string, cause any) {
	log.Printf("proxy: %s: %v", message, cause)
	c.JSON(status, gin.H{"error": message})
}

// GetTasks handles GET /api/tasks, passing query and X-Total-Count through.
func (f *Forwarder) GetTasks(c *gin.Context) {
	resp, err := f.do(c, http.MethodGet, "/tasks", c.Request.URL.RawQuery, nil)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch tasks", err)
		return
	}
	if !resp.ok() {
		fail(c, http.StatusInternalServerError, "Failed to fetch tasks", fmt.Sprintf("upstream status %d", resp.status))
		return
	}
	if total := resp.header.Get("X-Total-Count"); total != "" {
		c.Header("X-Total-Count", total)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", resp.body)
}

// CreateTask handles POST /api/tasks. The body is checked locally with the
// same rules as the store-backed handler before it is forwarded.
func (f *Forwarder) CreateTask(c *gin.Context) {
	var req handlers.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Column:      req.Column,
		Status:      req.Column,
		Subtasks:    req.Subtasks,
	}
	body, err := json.Marshal(task)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	resp, err := f.do(c, http.MethodPost, "/tasks", "", body)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create task", err)
		return
	}
	if !resp.ok() {
		fail(c, http.StatusInternalServerError, "Failed to create task", fmt.Sprintf("upstream status %d", resp.status))
		return
	}

	f.changed(realtime.EventTaskCreated, resp.body)
	c.Data(http.StatusCreated, "application/json; charset=utf-8", resp.body)
}

// GetTaskByID handles GET /api/tasks/:id
func (f *Forwarder) GetTaskByID(c *gin.Context) {
	resp, err := f.do(c, http.MethodGet, taskPath(c), "", nil)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch task", err)
		return
	}
	switch {
	case resp.status == http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case !resp.ok():
		fail(c, http.StatusInternalServerError, "Failed to fetch task", fmt.Sprintf("upstream status %d", resp.status))
	default:
		c.Data(http.StatusOK, "application/json; charset=utf-8", resp.body)
	}
}

// UpdateTask handles PUT and PATCH /api/tasks/:id. Both are sent upstream as
// PATCH so the upstream merges fields rather than replacing the record.
func (f *Forwarder) UpdateTask(c *gin.Context) {
	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := handlers.ValidatePatch(patch, time.Now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body, err := json.Marshal(handlers.NormalizePatch(patch))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update task", err)
		return
	}

	resp, err := f.do(c, http.MethodPatch, taskPath(c), "", body)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update task", err)
		return
	}
	switch {
	case resp.status == http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case !resp.ok():
		fail(c, http.StatusInternalServerError, "Failed to update task", fmt.Sprintf("upstream status %d", resp.status))
	default:
		f.changed(realtime.EventTaskUpdated, resp.body)
		c.Data(http.StatusOK, "application/json; charset=utf-8", resp.body)
	}
}

// DeleteTask handles DELETE /api/tasks/:id and answers 204 on success.
func (f *Forwarder) DeleteTask(c *gin.Context) {
	resp, err := f.do(c, http.MethodDelete, taskPath(c), "", nil)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete task", err)
		return
	}
	switch {
	case resp.status == http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case !resp.ok():
		fail(c, http.StatusInternalServerError, "Failed to delete task", fmt.Sprintf("upstream status %d", resp.status))
	default:
		f.columns.Clear()
		f.hub.Publish(realtime.Event{Type: realtime.EventTaskDeleted, TaskID: c.Param("id")})
		c.Status(http.StatusNoContent)
	}
}

// GetColumns handles GET /api/columns. Upstream answers are cached briefly;
// an empty list falls back to the standard columns.
func (f *Forwarder) GetColumns(c *gin.Context) {
	if body, ok := f.columns.Get("columns"); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	resp, err := f.do(c, http.MethodGet, "/columns", "", nil)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch columns", err)
		return
	}
	if !resp.ok() {
		fail(c, http.StatusInternalServerError, "Failed to fetch columns", fmt.Sprintf("upstream status %d", resp.status))
		return
	}

	var cols []models.Column
	if err := json.Unmarshal(resp.body, &cols); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch columns", err)
		return
	}
	if len(cols) == 0 {
		cols = models.DefaultColumns()
	}
	body, err := json.Marshal(cols)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch columns", err)
		return
	}
	f.columns.Set("columns", body, columnsTTL)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// ResetBoard handles POST /api/reset, which json-server has no equivalent for.
func (f *Forwarder) ResetBoard(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "Reset is not supported by the upstream server"})
}

// changed drops cached reads and tells listeners about the task in body.
func (f *Forwarder) changed(kind realtime.EventType, body []byte) {
	f.columns.Clear()
	var ref struct {
		ID models.ID `json:"id"`
	}
	_ = json.Unmarshal(body, &ref)
	f.hub.Publish(realtime.Event{Type: kind, TaskID: ref.ID.String()})
}

func taskPath(c *gin.Context) string {
	return "/tasks/" + url.PathEscape(c.Param("id"))
}
