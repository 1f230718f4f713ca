package tui

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"kanban-board-api/internal/board"
	"kanban-board-api/internal/client"
	"kanban-board-api/internal/handlers"
	"kanban-board-api/internal/models"
	"kanban-board-api/internal/realtime"
	"kanban-board-api/internal/routes"
	"kanban-board-api/internal/testutil"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newLoadedModel returns a model over a live API with the seed data loaded.
func newLoadedModel(t *testing.T) (Model, *board.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := realtime.NewHub()
	srv := httptest.NewServer(routes.Handler(handlers.NewTaskHandler(testutil.NewMemoryStore(nil), hub), hub))
	t.Cleanup(srv.Close)

	store := board.NewStore(client.New(srv.URL + "/api"))
	m := NewModel(context.Background(), store, Options{})
	m = settle(t, m, m.Init())
	require.Len(t, store.Tasks(), 3)
	return m, store
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys one by one and returns the command of the last one.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

// settle runs cmd and feeds back the board's own messages. Timer based
// commands (spinner, cursor blink) are not run.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = settleOwn(t, m, c)
		}
	case tasksFetchedMsg, columnsFetchedMsg, mutationMsg:
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func settleOwn(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg.(type) {
	case tasksFetchedMsg, columnsFetchedMsg, mutationMsg:
		next, _ := m.Update(msg)
		return next.(Model)
	}
	return m
}

func TestModel_InitialView(t *testing.T) {
	m, _ := newLoadedModel(t)
	view := m.View()
	require.Contains(t, view, "Welcome to Kanban Board")
	require.Contains(t, view, "Try Drag and Drop")
	require.Contains(t, view, "page 1/1")
}

func TestModel_DragBacklogToDone(t *testing.T) {
	m, store := newLoadedModel(t)

	m, cmd := press(t, m, "space")
	require.Nil(t, cmd)
	active, ok := m.ctrl.Active()
	require.True(t, ok)
	require.Equal(t, "1", active.ID.String())

	m, cmd = press(t, m, "right", "right", "right", "space")
	require.NotNil(t, cmd)
	m = settle(t, m, cmd)

	task, ok := store.Task(models.StringID("1"))
	require.True(t, ok)
	require.Equal(t, models.ColumnDone, task.Column)
	require.Equal(t, models.ColumnDone, task.Status)
	_, ok = m.ctrl.Active()
	require.False(t, ok)
	require.False(t, m.flashErr)
}

func TestModel_EscCancelsLift(t *testing.T) {
	m, store := newLoadedModel(t)

	m, _ = press(t, m, "space", "right", "esc", "space")
	// the second space lifts the in-progress card instead of dropping
	active, ok := m.ctrl.Active()
	require.True(t, ok)
	require.Equal(t, "2", active.ID.String())

	task, _ := store.Task(models.StringID("1"))
	require.Equal(t, models.ColumnBacklog, task.Column)
}

func TestModel_NewTaskForm(t *testing.T) {
	m, store := newLoadedModel(t)

	m, cmd := press(t, m, "n", "enter")
	require.Nil(t, cmd)
	require.True(t, m.flashErr)
	require.Contains(t, m.flash, "title is required")

	m, _ = press(t, m, "H", "i", "tab", "t", "h", "e", "r", "e")
	m, cmd = press(t, m, "enter")
	require.True(t, m.submitting)
	require.NotNil(t, cmd)

	// a second enter while saving is ignored
	_, again := press(t, m, "enter")
	require.Nil(t, again)

	m = settle(t, m, cmd)
	require.Equal(t, modeBoard, m.mode)
	require.False(t, m.submitting)

	tasks := store.Tasks()
	require.Len(t, tasks, 4)
	require.Equal(t, "Hi", tasks[3].Title)
	require.Equal(t, "there", tasks[3].Description)
	require.Equal(t, models.ColumnBacklog, tasks[3].Column)
}

func TestModel_SearchFiltersColumns(t *testing.T) {
	m, _ := newLoadedModel(t)

	m, _ = press(t, m, "/", "d", "r", "a", "g", "enter")
	require.Equal(t, modeBoard, m.mode)
	require.Len(t, m.visibleTasks(models.ColumnBacklog), 1)
	require.Empty(t, m.visibleTasks(models.ColumnInProgress))
	require.Len(t, m.visibleTasks(models.ColumnReview), 1)

	m, _ = press(t, m, "/", "esc")
	require.Len(t, m.visibleTasks(models.ColumnInProgress), 1)
}

func TestModel_Delete(t *testing.T) {
	m, store := newLoadedModel(t)

	m, cmd := press(t, m, "right", "d")
	m = settle(t, m, cmd)
	require.Len(t, store.Tasks(), 2)
	_, ok := store.Task(models.StringID("2"))
	require.False(t, ok)
	require.Contains(t, m.flash, "delete")
}

func TestModel_SubtaskBoard(t *testing.T) {
	m, store := newLoadedModel(t)

	m, _ = press(t, m, "enter")
	require.Equal(t, modeSubtasks, m.mode)

	m, _ = press(t, m, "a", "s", "u", "b")
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)
	require.Equal(t, modeSubtasks, m.mode)

	parent, _ := store.Task(models.StringID("1"))
	require.Len(t, parent.Subtasks, 1)
	require.Equal(t, models.SubTaskTodo, parent.Subtasks[0].Status)
	require.True(t, strings.Contains(m.View(), "sub"))

	// lift the subtask and drop it on "done"
	m, _ = press(t, m, "space", "right", "right")
	m, cmd = press(t, m, "space")
	m = settle(t, m, cmd)
	parent, _ = store.Task(models.StringID("1"))
	require.Equal(t, models.SubTaskDone, parent.Subtasks[0].Status)

	m, cmd = press(t, m, "4")
	m = settle(t, m, cmd)
	parent, _ = store.Task(models.StringID("1"))
	require.Equal(t, models.ColumnDone, parent.Column)
	require.Equal(t, models.ColumnDone, parent.Status)

	m, _ = press(t, m, "esc")
	require.Equal(t, modeBoard, m.mode)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newLoadedModel(t)
	m, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Empty(t, m.View())
}
