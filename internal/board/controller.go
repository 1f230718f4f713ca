package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"kanban-board-api/internal/models"
)

// ErrValidation is returned for drafts that must not be sent to the server.
var ErrValidation = errors.New("validation failed")

// ValidateDraft checks a new or edited task before it is dispatched.
func ValidateDraft(title, description string) error {
	switch {
	case strings.TrimSpace(title) == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case strings.TrimSpace(description) == "":
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	return nil
}

// ColumnTasks returns the tasks currently in column that match search, in
// store order.
func ColumnTasks(tasks []models.Task, column models.ColumnID, search string) []models.Task {
	out := make([]models.Task, 0)
	for i := range tasks {
		if tasks[i].Column == column && tasks[i].MatchesSearch(search) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// Controller implements drag and drop of cards between columns.
type Controller struct {
	store *Store

	mu     sync.Mutex
	active *models.Task
}

func NewController(store *Store) *Controller {
	return &Controller{store: store}
}

// DragStart lifts the task with the given id and returns it.
func (c *Controller) DragStart(id models.ID) (models.Task, bool) {
	task, ok := c.store.Task(id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !ok {
		c.active = nil
		return models.Task{}, false
	}
	c.active = &task
	return task, true
}

// Active returns the lifted task, if any.
func (c *Controller) Active() (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return models.Task{}, false
	}
	return *c.active, true
}

// Cancel drops the lifted task without moving it.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
}

// DragEnd drops activeID over overID. Only a drop on a different board
// column moves the task; anything else leaves it where it was. The lifted
// task is cleared either way. moved reports whether an update was sent.
func (c *Controller) DragEnd(ctx context.Context, activeID models.ID, overID string) (moved bool, err error) {
	c.Cancel()

	target := models.ColumnID(overID)
	if !target.Valid() {
		return false, nil
	}
	task, ok := c.store.Task(activeID)
	if !ok || task.Column == target {
		return false, nil
	}
	if _, err := c.store.MoveTask(ctx, activeID, target); err != nil {
		return false, err
	}
	return true, nil
}
