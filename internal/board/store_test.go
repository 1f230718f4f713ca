package board

import (
	"context"
	"testing"

	"kanban-board-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestStore_FetchTasksLifecycle(t *testing.T) {
	api := newFakeAPI()
	s := NewStore(api)
	require.Equal(t, StatusIdle, s.Snapshot().Tasks.Status)

	var seen []Status
	s.Subscribe(func() { seen = append(seen, s.Snapshot().Tasks.Status) })

	require.NoError(t, s.FetchTasks(context.Background()))
	st := s.Snapshot().Tasks
	require.Equal(t, StatusSucceeded, st.Status)
	require.False(t, st.Loading)
	require.Len(t, st.Items, 3)
	require.Equal(t, []Status{StatusLoading, StatusSucceeded}, seen)
}

func TestStore_FetchFailureKeepsItems(t *testing.T) {
	api := newFakeAPI()
	s := NewStore(api)
	require.NoError(t, s.FetchTasks(context.Background()))

	api.setFail(errBoom)
	require.ErrorIs(t, s.FetchTasks(context.Background()), errBoom)
	st := s.Snapshot().Tasks
	require.Equal(t, StatusFailed, st.Status)
	require.Equal(t, "Failed to update task (Status: 500)", st.Error)
	require.Len(t, st.Items, 3)

	api.setFail(errEmpty)
	require.Error(t, s.FetchColumns(context.Background()))
	require.Equal(t, "Failed to fetch columns", s.Snapshot().Columns.Error)
}

func TestStore_FetchColumns(t *testing.T) {
	s := NewStore(newFakeAPI())
	require.NoError(t, s.FetchColumns(context.Background()))
	cols := s.Snapshot().Columns
	require.Equal(t, StatusSucceeded, cols.Status)
	require.Equal(t, models.DefaultColumns(), cols.Items)
}

func TestStore_AddEditDelete(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := NewStore(api)
	require.NoError(t, s.FetchTasks(ctx))

	created, err := s.AddTask(ctx, models.NewTask{Title: "n", Description: "d", Column: models.ColumnDone})
	require.NoError(t, err)
	require.Len(t, s.Tasks(), 4)
	require.Equal(t, created.ID, s.Tasks()[3].ID)

	created.Title = "renamed"
	_, err = s.EditTask(ctx, *created)
	require.NoError(t, err)
	got, ok := s.Task(created.ID)
	require.True(t, ok)
	require.Equal(t, "renamed", got.Title)

	require.NoError(t, s.DeleteTask(ctx, created.ID))
	_, ok = s.Task(created.ID)
	require.False(t, ok)
	require.Len(t, s.Tasks(), 3)
}

func TestStore_MutationFailureRecordsError(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := NewStore(api)
	require.NoError(t, s.FetchTasks(ctx))

	api.setFail(errBoom)
	_, err := s.AddTask(ctx, models.NewTask{Title: "n", Description: "d", Column: models.ColumnDone})
	require.Error(t, err)
	st := s.Snapshot().Tasks
	require.Len(t, st.Items, 3)
	require.NotEmpty(t, st.Error)
	// mutations do not touch the fetch status
	require.Equal(t, StatusSucceeded, st.Status)
	require.False(t, st.Loading)

	require.Error(t, s.DeleteTask(ctx, models.StringID("1")))
	require.Len(t, s.Tasks(), 3)
}

func TestStore_MoveTaskRollsBack(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := NewStore(api)
	require.NoError(t, s.FetchTasks(ctx))

	api.setFail(errBoom)
	_, err := s.MoveTask(ctx, models.StringID("1"), models.ColumnDone)
	require.Error(t, err)

	task, ok := s.Task(models.StringID("1"))
	require.True(t, ok)
	require.Equal(t, models.ColumnBacklog, task.Column)
	require.Equal(t, models.ColumnBacklog, task.Status)
	require.NotEmpty(t, s.Snapshot().Tasks.Error)
}

func TestStore_MoveUnknownTask(t *testing.T) {
	s := NewStore(newFakeAPI())
	_, err := s.MoveTask(context.Background(), models.StringID("1"), models.ColumnDone)
	require.ErrorIs(t, err, ErrUnknownTask)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore(newFakeAPI())
	require.NoError(t, s.FetchTasks(context.Background()))

	snap := s.Snapshot()
	snap.Tasks.Items[0].Title = "changed"
	require.NotEqual(t, "changed", s.Tasks()[0].Title)
}

func TestStore_ResetBoard(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newFakeAPI())
	require.NoError(t, s.FetchTasks(ctx))
	require.NoError(t, s.DeleteTask(ctx, models.StringID("2")))
	require.Len(t, s.Tasks(), 2)

	require.NoError(t, s.ResetBoard(ctx))
	require.Len(t, s.Tasks(), 3)
}
