package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kanban-board-api/internal/models"
)

// SubtaskBoard edits the subtasks of one parent task. Every change rewrites
// the parent's subtask list and saves the whole parent through the store.
type SubtaskBoard struct {
	store    *Store
	parentID models.ID
	now      func() time.Time
}

func NewSubtaskBoard(store *Store, parentID models.ID) *SubtaskBoard {
	return &SubtaskBoard{store: store, parentID: parentID, now: time.Now}
}

// Parent returns the current copy of the parent task.
func (b *SubtaskBoard) Parent() (models.Task, bool) {
	return b.store.Task(b.parentID)
}

// Column returns the parent's subtasks with the given status that match
// search, in stored order.
func (b *SubtaskBoard) Column(status models.SubTaskStatus, search string) []models.SubTask {
	parent, ok := b.Parent()
	if !ok {
		return nil
	}
	out := make([]models.SubTask, 0)
	for _, st := range parent.Subtasks {
		if st.Status == status && st.MatchesSearch(search) {
			out = append(out, st)
		}
	}
	return out
}

func (b *SubtaskBoard) save(ctx context.Context, edit func(*models.Task) error) (*models.Task, error) {
	parent, ok := b.Parent()
	if !ok {
		return nil, ErrUnknownTask
	}
	if err := edit(&parent); err != nil {
		return nil, err
	}
	return b.store.EditTask(ctx, parent)
}

// Add appends a subtask with a clock based id that is unique in the parent.
func (b *SubtaskBoard) Add(ctx context.Context, title string, status models.SubTaskStatus) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: subtask title is required", ErrValidation)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown subtask status %q", ErrValidation, status)
	}
	return b.save(ctx, func(t *models.Task) error {
		t.Subtasks = append(t.Subtasks, models.SubTask{
			ID:     models.NextSubTaskID(t.Subtasks, b.now()),
			Title:  title,
			Status: status,
		})
		return nil
	})
}

// Edit replaces the title and status of an existing subtask.
func (b *SubtaskBoard) Edit(ctx context.Context, sub models.SubTask) (*models.Task, error) {
	if strings.TrimSpace(sub.Title) == "" {
		return nil, fmt.Errorf("%w: subtask title is required", ErrValidation)
	}
	if !sub.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown subtask status %q", ErrValidation, sub.Status)
	}
	return b.save(ctx, func(t *models.Task) error {
		i, ok := t.FindSubTask(sub.ID)
		if !ok {
			return fmt.Errorf("subtask %d: %w", sub.ID, models.ErrInvalidSubTask)
		}
		t.Subtasks[i] = sub
		return nil
	})
}

func (b *SubtaskBoard) Delete(ctx context.Context, subID int64) (*models.Task, error) {
	return b.save(ctx, func(t *models.Task) error {
		kept := make([]models.SubTask, 0, len(t.Subtasks))
		for _, st := range t.Subtasks {
			if st.ID != subID {
				kept = append(kept, st)
			}
		}
		t.Subtasks = kept
		return nil
	})
}

// DragEnd moves a subtask to the status column it was dropped on. Drops on
// its own column or on something that is not a status do nothing.
func (b *SubtaskBoard) DragEnd(ctx context.Context, subID int64, over string) (bool, error) {
	target := models.SubTaskStatus(over)
	if !target.Valid() {
		return false, nil
	}
	parent, ok := b.Parent()
	if !ok {
		return false, ErrUnknownTask
	}
	i, ok := parent.FindSubTask(subID)
	if !ok || parent.Subtasks[i].Status == target {
		return false, nil
	}
	_, err := b.save(ctx, func(t *models.Task) error {
		if j, ok := t.FindSubTask(subID); ok {
			t.Subtasks[j].Status = target
		}
		return nil
	})
	return err == nil, err
}

// SetParentStatus moves the parent task to column.
func (b *SubtaskBoard) SetParentStatus(ctx context.Context, column models.ColumnID) (*models.Task, error) {
	if !column.Valid() {
		return nil, fmt.Errorf("%w: unknown column %q", ErrValidation, column)
	}
	return b.save(ctx, func(t *models.Task) error {
		t.MoveTo(column)
		return nil
	})
}
