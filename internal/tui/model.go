// Package tui is the terminal kanban board: four columns of cards that can
// be lifted and dropped between columns, searched, paged and edited.
package tui

import (
	"context"
	"fmt"

	"kanban-board-api/internal/board"
	"kanban-board-api/internal/models"
	"kanban-board-api/internal/realtime"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeBoard mode = iota
	modeSearch
	modeForm
	modeSubtasks
	modeSubtaskForm
)

type tasksFetchedMsg struct{ err error }

type columnsFetchedMsg struct{ err error }

// mutationMsg reports the end of a create, update, move or delete.
type mutationMsg struct {
	action string
	err    error
}

type boardEventMsg struct{ event realtime.Event }

// Options configures a Model.
type Options struct {
	// Events, when set, delivers realtime board changes; each one triggers
	// a refetch of the tasks.
	Events <-chan realtime.Event
}

type Model struct {
	ctx    context.Context
	store  *board.Store
	ctrl   *board.Controller
	events <-chan realtime.Event

	keys    boardKeyMap
	subKeys subtaskKeyMap
	help    help.Model
	spinner spinner.Model

	mode   mode
	col    int
	row    int
	pagers map[models.ColumnID]*board.Pager

	search     textinput.Model
	title      textinput.Model
	desc       textinput.Model
	formFocus  int
	submitting bool

	subtasks  *board.SubtaskBoard
	subCol    int
	subRow    int
	subLifted int64
	subTitle  textinput.Model

	flash    string
	flashErr bool
	width    int
	quitting bool
}

func NewModel(ctx context.Context, store *board.Store, opts Options) Model {
	m := Model{
		ctx:     ctx,
		store:   store,
		ctrl:    board.NewController(store),
		events:  opts.Events,
		keys:    defaultBoardKeys(),
		subKeys: defaultSubtaskKeys(),
		help:    help.New(),
		pagers:  make(map[models.ColumnID]*board.Pager, len(models.BoardColumns)),
		width:   120,
	}
	for _, c := range models.BoardColumns {
		m.pagers[c] = board.NewPager(board.DefaultPageSize)
	}

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	m.search = textinput.New()
	m.search.Prompt = "search> "
	m.search.Placeholder = "title or description"
	m.search.CharLimit = 128

	m.title = textinput.New()
	m.title.Prompt = "title> "
	m.title.CharLimit = 256

	m.desc = textinput.New()
	m.desc.Prompt = "description> "
	m.desc.CharLimit = 1024

	m.subTitle = textinput.New()
	m.subTitle.Prompt = "subtask> "
	m.subTitle.CharLimit = 256
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchColumnsCmd(m.ctx, m.store),
		fetchTasksCmd(m.ctx, m.store),
		waitForEventCmd(m.events),
	)
}

func fetchTasksCmd(ctx context.Context, s *board.Store) tea.Cmd {
	return func() tea.Msg {
		return tasksFetchedMsg{err: s.FetchTasks(ctx)}
	}
}

func fetchColumnsCmd(ctx context.Context, s *board.Store) tea.Cmd {
	return func() tea.Msg {
		return columnsFetchedMsg{err: s.FetchColumns(ctx)}
	}
}

func mutateCmd(action string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return mutationMsg{action: action, err: fn()}
	}
}

func waitForEventCmd(ch <-chan realtime.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return boardEventMsg{event: evt}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.help.Width = typed.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	case tasksFetchedMsg, columnsFetchedMsg:
		// the store already holds the result or the error
		m.clampRow()
		return m, nil
	case mutationMsg:
		return m.onMutation(typed), nil
	case boardEventMsg:
		return m, tea.Batch(fetchTasksCmd(m.ctx, m.store), waitForEventCmd(m.events))
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.handleSearchKey(typed)
		case modeForm:
			return m.handleFormKey(typed)
		case modeSubtasks:
			return m.handleSubtaskKey(typed)
		case modeSubtaskForm:
			return m.handleSubtaskFormKey(typed)
		default:
			return m.handleBoardKey(typed)
		}
	}
	return m, nil
}

func (m Model) onMutation(msg mutationMsg) Model {
	m.submitting = false
	if msg.err != nil {
		m.flash = msg.err.Error()
		m.flashErr = true
		return m
	}
	m.flash = msg.action + " done"
	m.flashErr = false
	switch m.mode {
	case modeForm:
		m.mode = modeBoard
		m.title.Blur()
		m.desc.Blur()
	case modeSubtaskForm:
		m.mode = modeSubtasks
		m.subTitle.Blur()
	}
	m.clampRow()
	return m
}

func (m Model) currentColumn() models.ColumnID {
	return models.BoardColumns[m.col]
}

// visibleTasks is the current page of column after search.
func (m Model) visibleTasks(column models.ColumnID) []models.Task {
	tasks := board.ColumnTasks(m.store.Tasks(), column, m.search.Value())
	pager := m.pagers[column]
	pager.Sync(m.search.Value(), len(tasks))
	return board.Window(pager, tasks)
}

func (m Model) selectedTask() (models.Task, bool) {
	visible := m.visibleTasks(m.currentColumn())
	if m.row >= 0 && m.row < len(visible) {
		return visible[m.row], true
	}
	return models.Task{}, false
}

func (m *Model) clampRow() {
	n := len(m.visibleTasks(m.currentColumn()))
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
	if m.subtasks != nil {
		n = len(m.subtasks.Column(models.SubTaskStatuses[m.subCol], m.search.Value()))
		if m.subRow >= n {
			m.subRow = n - 1
		}
		if m.subRow < 0 {
			m.subRow = 0
		}
	}
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.row = 0
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(models.BoardColumns)-1 {
			m.col++
			m.row = 0
		}
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		m.row++
		m.clampRow()
	case key.Matches(msg, m.keys.Lift):
		if active, ok := m.ctrl.Active(); ok {
			target := string(m.currentColumn())
			return m, mutateCmd("move", func() error {
				_, err := m.ctrl.DragEnd(m.ctx, active.ID, target)
				return err
			})
		}
		if task, ok := m.selectedTask(); ok {
			m.ctrl.DragStart(task.ID)
		}
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.Cancel()
	case key.Matches(msg, m.keys.PrevPage):
		m.pagers[m.currentColumn()].Prev()
		m.row = 0
	case key.Matches(msg, m.keys.NextPage):
		m.pagers[m.currentColumn()].Next()
		m.row = 0
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.New):
		m.mode = modeForm
		m.formFocus = 0
		m.title.Reset()
		m.desc.Reset()
		m.desc.Blur()
		return m, m.title.Focus()
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selectedTask(); ok {
			return m, mutateCmd("delete", func() error {
				return m.store.DeleteTask(m.ctx, task.ID)
			})
		}
	case key.Matches(msg, m.keys.Open):
		if task, ok := m.selectedTask(); ok {
			m.ctrl.Cancel()
			m.subtasks = board.NewSubtaskBoard(m.store, task.ID)
			m.mode = modeSubtasks
			m.subCol, m.subRow, m.subLifted = 0, 0, 0
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(fetchColumnsCmd(m.ctx, m.store), fetchTasksCmd(m.ctx, m.store))
	case key.Matches(msg, m.keys.Reset):
		return m, mutateCmd("reset", func() error {
			return m.store.ResetBoard(m.ctx)
		})
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.Reset()
		m.search.Blur()
		m.mode = modeBoard
		m.row = 0
		return m, nil
	case "enter":
		m.search.Blur()
		m.mode = modeBoard
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.row = 0
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.title.Blur()
		m.desc.Blur()
		m.mode = modeBoard
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.formFocus = 1 - m.formFocus
		if m.formFocus == 0 {
			m.desc.Blur()
			return m, m.title.Focus()
		}
		m.title.Blur()
		return m, m.desc.Focus()
	case "enter":
		if m.submitting {
			return m, nil
		}
		if err := board.ValidateDraft(m.title.Value(), m.desc.Value()); err != nil {
			m.flash = err.Error()
			m.flashErr = true
			return m, nil
		}
		m.submitting = true
		draft := models.NewTask{
			Title:       m.title.Value(),
			Description: m.desc.Value(),
			Column:      m.currentColumn(),
			Status:      m.currentColumn(),
		}
		return m, mutateCmd("create", func() error {
			_, err := m.store.AddTask(m.ctx, draft)
			return err
		})
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

func (m Model) selectedSubtask() (models.SubTask, bool) {
	if m.subtasks == nil {
		return models.SubTask{}, false
	}
	subs := m.subtasks.Column(models.SubTaskStatuses[m.subCol], m.search.Value())
	if m.subRow >= 0 && m.subRow < len(subs) {
		return subs[m.subRow], true
	}
	return models.SubTask{}, false
}

func (m Model) handleSubtaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.subKeys.Back):
		if m.subLifted != 0 {
			m.subLifted = 0
			return m, nil
		}
		m.mode = modeBoard
		m.subtasks = nil
		m.clampRow()
	case key.Matches(msg, m.subKeys.Left):
		if m.subCol > 0 {
			m.subCol--
			m.subRow = 0
		}
	case key.Matches(msg, m.subKeys.Right):
		if m.subCol < len(models.SubTaskStatuses)-1 {
			m.subCol++
			m.subRow = 0
		}
	case key.Matches(msg, m.subKeys.Up):
		if m.subRow > 0 {
			m.subRow--
		}
	case key.Matches(msg, m.subKeys.Down):
		m.subRow++
		m.clampRow()
	case key.Matches(msg, m.subKeys.Lift):
		if m.subLifted != 0 {
			id, target := m.subLifted, string(models.SubTaskStatuses[m.subCol])
			m.subLifted = 0
			sb := m.subtasks
			return m, mutateCmd("move subtask", func() error {
				_, err := sb.DragEnd(m.ctx, id, target)
				return err
			})
		}
		if sub, ok := m.selectedSubtask(); ok {
			m.subLifted = sub.ID
		}
	case key.Matches(msg, m.subKeys.Add):
		m.mode = modeSubtaskForm
		m.subTitle.Reset()
		return m, m.subTitle.Focus()
	case key.Matches(msg, m.subKeys.Delete):
		if sub, ok := m.selectedSubtask(); ok {
			sb := m.subtasks
			return m, mutateCmd("delete subtask", func() error {
				_, err := sb.Delete(m.ctx, sub.ID)
				return err
			})
		}
	case key.Matches(msg, m.subKeys.Parent):
		column := models.BoardColumns[int(msg.String()[0]-'1')]
		sb := m.subtasks
		return m, mutateCmd(fmt.Sprintf("move to %s", column), func() error {
			_, err := sb.SetParentStatus(m.ctx, column)
			return err
		})
	}
	return m, nil
}

func (m Model) handleSubtaskFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.subTitle.Blur()
		m.mode = modeSubtasks
		return m, nil
	case "enter":
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		title, status, sb := m.subTitle.Value(), models.SubTaskStatuses[m.subCol], m.subtasks
		return m, mutateCmd("add subtask", func() error {
			_, err := sb.Add(m.ctx, title, status)
			return err
		})
	}
	var cmd tea.Cmd
	m.subTitle, cmd = m.subTitle.Update(msg)
	return m, cmd
}
