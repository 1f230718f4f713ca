package handlers

import (
	"net/url"
	"strconv"

	"kanban-board-api/internal/models"
)

const defaultPageLimit = 10

// TaskQuery holds the list filters understood by GET /tasks. The parameter
// names follow json-server so either backend serves the same client.
type TaskQuery struct {
	Column models.ColumnID
	Status models.ColumnID
	Search string

	// Paginate is set when _page or _limit was given.
	Paginate bool
	Page     int
	Limit    int
}

// ParseTaskQuery reads column, status, q, _page and _limit. Missing or
// non-positive paging values fall back to page 1 and a limit of 10.
func ParseTaskQuery(values url.Values) TaskQuery {
	q := TaskQuery{
		Column: models.ColumnID(values.Get("column")),
		Status: models.ColumnID(values.Get("status")),
		Search: values.Get("q"),
		Page:   1,
		Limit:  defaultPageLimit,
	}
	if values.Has("_page") || values.Has("_limit") {
		q.Paginate = true
	}
	if n, err := strconv.Atoi(values.Get("_page")); err == nil && n > 0 {
		q.Page = n
	}
	if n, err := strconv.Atoi(values.Get("_limit")); err == nil && n > 0 {
		q.Limit = n
	}
	return q
}

// Filter returns the tasks matching every filter, in store order.
func (q TaskQuery) Filter(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if q.Column != "" && t.Column != q.Column {
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if !t.MatchesSearch(q.Search) {
			continue
		}
		out = append(out, *t)
	}
	return out
}

// Window cuts the requested page out of tasks. Pages past the end are empty.
func (q TaskQuery) Window(tasks []models.Task) []models.Task {
	if !q.Paginate {
		return tasks
	}
	n := len(tasks)
	// compare page numbers rather than offsets so huge values cannot overflow
	if n == 0 || q.Page < 1 || q.Limit < 1 || q.Page-1 > (n-1)/q.Limit {
		return []models.Task{}
	}
	start := (q.Page - 1) * q.Limit
	end := n
	if q.Limit < n-start {
		end = start + q.Limit
	}
	return tasks[start:end]
}
