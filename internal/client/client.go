// Package client talks to the board API over HTTP. It is what the terminal
// board uses and works against either server backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kanban-board-api/internal/models"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8008/api"

// APIError is returned for any non-2xx answer.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (Status: %d)", e.Message, e.Status)
}

// Client is a board API client. It is safe for concurrent use.
type Client struct {
	base   string
	http   *http.Client
	logger *log.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger turns on request/response debug logging.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root every path is joined to.
func (c *Client) BaseURL() string {
	return c.base
}

func (c *Client) url(path string) string {
	return c.base + "/" + strings.TrimPrefix(path, "/")
}

func (c *Client) debugf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// send performs the request and returns the response for 2xx answers. Any
// other status is turned into an *APIError using fallback when the body has
// no error field.
func (c *Client) send(ctx context.Context, method, path string, body any, fallback string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.url(path)
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	c.debugf("API request: %s %s", method, target)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fallback, err)
	}
	c.debugf("API response: %s %s -> %d", method, target, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeError(resp, fallback)
	}
	return resp, nil
}

func decodeError(resp *http.Response, fallback string) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: fallback}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	}
	return apiErr
}

func (c *Client) call(ctx context.Context, method, path string, body, out any, fallback string) (http.Header, error) {
	resp, err := c.send(ctx, method, path, body, fallback)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%s: decode response: %w", fallback, err)
		}
	}
	return resp.Header, nil
}

// ListTasks fetches every task.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if _, err := c.call(ctx, http.MethodGet, "tasks", nil, &tasks, "Failed to fetch tasks"); err != nil {
		return nil, err
	}
	return tasks, nil
}

// PageQuery selects one page of one column.
type PageQuery struct {
	Column models.ColumnID
	Search string
	Page   int
	Limit  int
}

// Page is one window of a filtered task list.
type Page struct {
	Data  []models.Task
	Total int
}

// ListTasksPage fetches one page. Total is the server's X-Total-Count, or
// the number of returned items when the header is missing.
func (c *Client) ListTasksPage(ctx context.Context, q PageQuery) (*Page, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 5
	}
	params := url.Values{}
	if q.Column != "" {
		params.Set("column", string(q.Column))
	}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	params.Set("_page", strconv.Itoa(q.Page))
	params.Set("_limit", strconv.Itoa(q.Limit))

	var tasks []models.Task
	header, err := c.call(ctx, http.MethodGet, "tasks?"+params.Encode(), nil, &tasks, "Failed to fetch tasks")
	if err != nil {
		return nil, err
	}
	page := &Page{Data: tasks, Total: len(tasks)}
	if n, err := strconv.Atoi(header.Get("X-Total-Count")); err == nil {
		page.Total = n
	}
	return page, nil
}

// CreateTask posts a new task. A task without a column goes to the backlog,
// and the status follows the column unless set.
func (c *Client) CreateTask(ctx context.Context, task models.NewTask) (*models.Task, error) {
	if task.Column == "" {
		task.Column = models.ColumnBacklog
	}
	if task.Status == "" {
		task.Status = task.Column
	}
	var created models.Task
	if _, err := c.call(ctx, http.MethodPost, "tasks", task, &created, "Failed to create task"); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetTask(ctx context.Context, id models.ID) (*models.Task, error) {
	var task models.Task
	fallback := fmt.Sprintf("Failed to fetch task %s", id)
	if _, err := c.call(ctx, http.MethodGet, "tasks/"+url.PathEscape(id.String()), nil, &task, fallback); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask sends the whole task with PUT and returns the server's copy.
func (c *Client) UpdateTask(ctx context.Context, task models.Task) (*models.Task, error) {
	var updated models.Task
	if _, err := c.call(ctx, http.MethodPut, "tasks/"+url.PathEscape(task.ID.String()), task, &updated, "Failed to update task"); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTask removes a task. 200 with a body and 204 without are both
// success.
func (c *Client) DeleteTask(ctx context.Context, id models.ID) error {
	resp, err := c.send(ctx, http.MethodDelete, "tasks/"+url.PathEscape(id.String()), nil, "Failed to delete task")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) ListColumns(ctx context.Context) ([]models.Column, error) {
	var cols []models.Column
	if _, err := c.call(ctx, http.MethodGet, "columns", nil, &cols, "Failed to fetch columns"); err != nil {
		return nil, err
	}
	return cols, nil
}

// ResetBoard restores the seed data on the server.
func (c *Client) ResetBoard(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodPost, "reset", nil, nil, "Failed to reset board")
	return err
}
