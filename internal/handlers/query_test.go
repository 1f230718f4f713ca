package handlers

import (
	"math"
	"net/url"
	"testing"

	"kanban-board-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestParseTaskQuery(t *testing.T) {
	q := ParseTaskQuery(url.Values{})
	require.False(t, q.Paginate)
	require.Equal(t, 1, q.Page)
	require.Equal(t, defaultPageLimit, q.Limit)

	q = ParseTaskQuery(url.Values{"_page": {"0"}, "_limit": {"abc"}, "column": {"done"}, "q": {"x"}})
	require.True(t, q.Paginate)
	require.Equal(t, 1, q.Page)
	require.Equal(t, defaultPageLimit, q.Limit)
	require.Equal(t, models.ColumnDone, q.Column)
	require.Equal(t, "x", q.Search)

	q = ParseTaskQuery(url.Values{"_page": {"3"}, "_limit": {"2"}})
	require.Equal(t, 3, q.Page)
	require.Equal(t, 2, q.Limit)
}

func TestTaskQuery_Filter(t *testing.T) {
	tasks := models.DefaultDatabase().Tasks
	// give task 2 a status that disagrees with its column to tell the filters apart
	tasks[1].Status = models.ColumnDone

	require.Len(t, TaskQuery{}.Filter(tasks), 3)
	require.Len(t, TaskQuery{Column: models.ColumnInProgress}.Filter(tasks), 1)
	require.Len(t, TaskQuery{Status: models.ColumnInProgress}.Filter(tasks), 0)
	require.Len(t, TaskQuery{Status: models.ColumnDone}.Filter(tasks), 1)

	got := TaskQuery{Search: "first"}.Filter(tasks)
	require.Len(t, got, 1)
	require.Equal(t, "2", got[0].ID.String())

	for _, task := range (TaskQuery{Column: models.ColumnReview}).Filter(tasks) {
		require.Equal(t, models.ColumnReview, task.Column)
	}
}

func TestTaskQuery_Window(t *testing.T) {
	tasks := models.DefaultDatabase().Tasks

	require.Len(t, TaskQuery{}.Window(tasks), 3)

	q := TaskQuery{Paginate: true, Page: 1, Limit: 2}
	require.Len(t, q.Window(tasks), 2)
	q.Page = 2
	require.Len(t, q.Window(tasks), 1)
	q.Page = 3
	page := q.Window(tasks)
	require.NotNil(t, page)
	require.Empty(t, page)
}

func TestTaskQuery_WindowHugeValues(t *testing.T) {
	tasks := models.DefaultDatabase().Tasks

	q := TaskQuery{Paginate: true, Page: 3, Limit: 1 << 62}
	require.Empty(t, q.Window(tasks))

	q = TaskQuery{Paginate: true, Page: 1, Limit: math.MaxInt}
	require.Len(t, q.Window(tasks), 3)

	q = TaskQuery{Paginate: true, Page: math.MaxInt, Limit: 2}
	require.Empty(t, q.Window(tasks))

	q = TaskQuery{Paginate: true, Page: 1, Limit: 2}
	require.Empty(t, q.Window(nil))
}
