package board

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"kanban-board-api/internal/client"
	"kanban-board-api/internal/models"
)

// fakeAPI keeps a task list in memory. Setting fail makes the next calls
// return that error.
type fakeAPI struct {
	mu      sync.Mutex
	tasks   []models.Task
	columns []models.Column
	nextID  int
	fail    error
	updates []models.Task
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tasks:   models.DefaultDatabase().Tasks,
		columns: models.DefaultColumns(),
		nextID:  100,
	}
}

var errBoom = &client.APIError{Status: 500, Message: "Failed to update task"}

func (f *fakeAPI) ListTasks(context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]models.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (f *fakeAPI) ListColumns(context.Context) ([]models.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return append([]models.Column(nil), f.columns...), nil
}

func (f *fakeAPI) CreateTask(_ context.Context, nt models.NewTask) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.nextID++
	t := models.Task{ID: models.StringID(strconv.Itoa(f.nextID)), Title: nt.Title, Description: nt.Description, Subtasks: nt.Subtasks}
	t.MoveTo(nt.Column)
	f.tasks = append(f.tasks, t)
	return &t, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, t models.Task) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, t.Clone())
	if f.fail != nil {
		return nil, f.fail
	}
	for i := range f.tasks {
		if f.tasks[i].ID.Equal(t.ID) {
			f.tasks[i] = t.Clone()
			return &t, nil
		}
	}
	return nil, &client.APIError{Status: 404, Message: "Task not found"}
}

func (f *fakeAPI) DeleteTask(_ context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	for i := range f.tasks {
		if f.tasks[i].ID.Equal(id) {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &client.APIError{Status: 404, Message: "Task not found"}
}

func (f *fakeAPI) ResetBoard(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.tasks = models.DefaultDatabase().Tasks
	return nil
}

func (f *fakeAPI) setFail(err error) {
	f.mu.Lock()
	f.fail = err
	f.mu.Unlock()
}

var _ API = (*fakeAPI)(nil)
var _ API = (*client.Client)(nil)

var errEmpty = errors.New("")
