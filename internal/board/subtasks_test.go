package board

import (
	"context"
	"testing"
	"time"

	"kanban-board-api/internal/models"

	"github.com/stretchr/testify/require"
)

func subtaskBoard(t *testing.T) (*SubtaskBoard, *Store, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	s := NewStore(api)
	require.NoError(t, s.FetchTasks(context.Background()))
	b := NewSubtaskBoard(s, models.StringID("2"))
	b.now = func() time.Time { return time.UnixMilli(1000) }
	return b, s, api
}

func TestSubtaskBoard_AddUsesUniqueIDs(t *testing.T) {
	b, _, api := subtaskBoard(t)
	ctx := context.Background()

	_, err := b.Add(ctx, "first", models.SubTaskTodo)
	require.NoError(t, err)
	_, err = b.Add(ctx, "second", models.SubTaskTodo)
	require.NoError(t, err)

	parent, ok := b.Parent()
	require.True(t, ok)
	require.Len(t, parent.Subtasks, 2)
	require.Equal(t, int64(1000), parent.Subtasks[0].ID)
	require.Equal(t, int64(1001), parent.Subtasks[1].ID)
	require.Len(t, api.updates, 2)
	require.Len(t, b.Column(models.SubTaskTodo, ""), 2)
	require.Len(t, b.Column(models.SubTaskTodo, "SEC"), 1)
}

func TestSubtaskBoard_Validation(t *testing.T) {
	b, _, api := subtaskBoard(t)
	ctx := context.Background()

	_, err := b.Add(ctx, "", models.SubTaskTodo)
	require.ErrorIs(t, err, ErrValidation)
	_, err = b.Add(ctx, "x", "later")
	require.ErrorIs(t, err, ErrValidation)
	_, err = b.SetParentStatus(ctx, "archive")
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, api.updates)
}

func TestSubtaskBoard_EditDragDelete(t *testing.T) {
	b, _, _ := subtaskBoard(t)
	ctx := context.Background()

	_, err := b.Add(ctx, "write", models.SubTaskTodo)
	require.NoError(t, err)
	parent, _ := b.Parent()
	sub := parent.Subtasks[0]

	sub.Title = "rewrite"
	_, err = b.Edit(ctx, sub)
	require.NoError(t, err)
	require.Equal(t, "rewrite", b.Column(models.SubTaskTodo, "")[0].Title)

	moved, err := b.DragEnd(ctx, sub.ID, "doing")
	require.NoError(t, err)
	require.True(t, moved)
	require.Empty(t, b.Column(models.SubTaskTodo, ""))
	require.Len(t, b.Column(models.SubTaskDoing, ""), 1)

	moved, err = b.DragEnd(ctx, sub.ID, "doing")
	require.NoError(t, err)
	require.False(t, moved)

	_, err = b.Delete(ctx, sub.ID)
	require.NoError(t, err)
	parent, _ = b.Parent()
	require.Empty(t, parent.Subtasks)
}

func TestSubtaskBoard_SetParentStatus(t *testing.T) {
	b, s, _ := subtaskBoard(t)

	_, err := b.SetParentStatus(context.Background(), models.ColumnDone)
	require.NoError(t, err)
	task, _ := s.Task(models.StringID("2"))
	require.Equal(t, models.ColumnDone, task.Column)
	require.Equal(t, models.ColumnDone, task.Status)
}

func TestSubtaskBoard_UnknownParent(t *testing.T) {
	api := newFakeAPI()
	s := NewStore(api)
	b := NewSubtaskBoard(s, models.StringID("2"))
	_, err := b.Add(context.Background(), "x", models.SubTaskTodo)
	require.ErrorIs(t, err, ErrUnknownTask)
}
