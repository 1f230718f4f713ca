// Package board holds the client-side board state and the operations the
// terminal board performs on it: fetching, editing, dragging cards between
// columns and paging through them.
package board

import (
	"context"
	"errors"
	"sync"

	"kanban-board-api/internal/models"
)

// API is the part of the HTTP client the board needs.
type API interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	ListColumns(ctx context.Context) ([]models.Column, error)
	CreateTask(ctx context.Context, task models.NewTask) (*models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, id models.ID) error
	ResetBoard(ctx context.Context) error
}

// Status tracks a collection's fetch lifecycle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Collection is the state kept for one fetched list.
type Collection[T any] struct {
	Items   []T
	Status  Status
	Loading bool
	Error   string
}

// State is a copy of the store contents, safe to read without locking.
type State struct {
	Tasks   Collection[models.Task]
	Columns Collection[models.Column]
}

// Store is the shared task and column state. Every action talks to the API
// and then updates the state; listeners run after each change.
type Store struct {
	api API

	mu        sync.RWMutex
	state     State
	listeners []func()
}

func NewStore(api API) *Store {
	return &Store{
		api: api,
		state: State{
			Tasks:   Collection[models.Task]{Status: StatusIdle},
			Columns: Collection[models.Column]{Status: StatusIdle},
		},
	}
}

// Subscribe registers fn to run after every state change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Tasks.Items = make([]models.Task, len(s.state.Tasks.Items))
	for i, t := range s.state.Tasks.Items {
		out.Tasks.Items[i] = t.Clone()
	}
	out.Columns.Items = append([]models.Column(nil), s.state.Columns.Items...)
	return out
}

// Tasks is shorthand for Snapshot().Tasks.Items.
func (s *Store) Tasks() []models.Task {
	return s.Snapshot().Tasks.Items
}

// Task returns a copy of the task with the given id.
func (s *Store) Task(id models.ID) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.state.Tasks.Items[i].Clone(), true
	}
	return models.Task{}, false
}

// update applies fn under the lock and then notifies listeners.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l()
	}
}

func (s *Store) indexOf(id models.ID) int {
	for i := range s.state.Tasks.Items {
		if s.state.Tasks.Items[i].ID.Equal(id) {
			return i
		}
	}
	return -1
}

func message(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

// FetchTasks replaces the task list with the server's.
func (s *Store) FetchTasks(ctx context.Context) error {
	s.update(func(st *State) {
		st.Tasks.Status = StatusLoading
		st.Tasks.Loading = true
		st.Tasks.Error = ""
	})

	tasks, err := s.api.ListTasks(ctx)
	s.update(func(st *State) {
		st.Tasks.Loading = false
		if err != nil {
			st.Tasks.Status = StatusFailed
			st.Tasks.Error = message(err, "Failed to fetch tasks")
			return
		}
		st.Tasks.Status = StatusSucceeded
		st.Tasks.Items = tasks
	})
	return err
}

// FetchColumns replaces the column list with the server's.
func (s *Store) FetchColumns(ctx context.Context) error {
	s.update(func(st *State) {
		st.Columns.Status = StatusLoading
		st.Columns.Loading = true
		st.Columns.Error = ""
	})

	cols, err := s.api.ListColumns(ctx)
	s.update(func(st *State) {
		st.Columns.Loading = false
		if err != nil {
			st.Columns.Status = StatusFailed
			st.Columns.Error = message(err, "Failed to fetch columns")
			return
		}
		st.Columns.Status = StatusSucceeded
		st.Columns.Items = cols
	})
	return err
}

// mutate runs call with the shared pending/rejected handling of the task
// mutations. They never touch the collection-wide Loading flag.
func (s *Store) mutate(fallback string, call func() error) error {
	s.update(func(st *State) { st.Tasks.Error = "" })
	if err := call(); err != nil {
		s.update(func(st *State) { st.Tasks.Error = message(err, fallback) })
		return err
	}
	return nil
}

// AddTask creates a task and appends the server's copy.
func (s *Store) AddTask(ctx context.Context, task models.NewTask) (*models.Task, error) {
	var created *models.Task
	err := s.mutate("Failed to create task", func() error {
		var err error
		created, err = s.api.CreateTask(ctx, task)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.update(func(st *State) {
		st.Tasks.Items = append(st.Tasks.Items, created.Clone())
	})
	return created, nil
}

// EditTask sends task to the server and replaces the local entry with the
// answer. Tasks not held locally are left alone.
func (s *Store) EditTask(ctx context.Context, task models.Task) (*models.Task, error) {
	var updated *models.Task
	err := s.mutate("Failed to update task", func() error {
		var err error
		updated, err = s.api.UpdateTask(ctx, task)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.update(func(st *State) {
		if i := s.indexOf(updated.ID); i >= 0 {
			st.Tasks.Items[i] = updated.Clone()
		}
	})
	return updated, nil
}

func (s *Store) DeleteTask(ctx context.Context, id models.ID) error {
	err := s.mutate("Failed to delete task", func() error {
		return s.api.DeleteTask(ctx, id)
	})
	if err != nil {
		return err
	}
	s.update(func(st *State) {
		if i := s.indexOf(id); i >= 0 {
			st.Tasks.Items = append(st.Tasks.Items[:i], st.Tasks.Items[i+1:]...)
		}
	})
	return nil
}

// ErrUnknownTask is returned when an action names a task the store does not
// hold.
var ErrUnknownTask = errors.New("task is not on the board")

// MoveTask puts the task in column right away, then confirms with the
// server. On failure the previous version is restored.
func (s *Store) MoveTask(ctx context.Context, id models.ID, column models.ColumnID) (*models.Task, error) {
	var previous models.Task
	found := false
	s.update(func(st *State) {
		st.Tasks.Error = ""
		if i := s.indexOf(id); i >= 0 {
			found = true
			previous = st.Tasks.Items[i].Clone()
			st.Tasks.Items[i].MoveTo(column)
		}
	})
	if !found {
		return nil, ErrUnknownTask
	}

	moved := previous.Clone()
	moved.MoveTo(column)
	updated, err := s.api.UpdateTask(ctx, moved)
	s.update(func(st *State) {
		i := s.indexOf(id)
		if err != nil {
			st.Tasks.Error = message(err, "Failed to update task")
			if i >= 0 {
				st.Tasks.Items[i] = previous
			}
			return
		}
		if i >= 0 {
			st.Tasks.Items[i] = updated.Clone()
		}
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ResetBoard restores the server's seed data and refetches the tasks.
func (s *Store) ResetBoard(ctx context.Context) error {
	if err := s.mutate("Failed to reset board", func() error { return s.api.ResetBoard(ctx) }); err != nil {
		return err
	}
	return s.FetchTasks(ctx)
}
