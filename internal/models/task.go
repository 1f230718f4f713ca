package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ColumnID identifies a board column. Task status uses the same values.
type ColumnID string

const (
	ColumnBacklog    ColumnID = "backlog"
	ColumnInProgress ColumnID = "in_progress"
	ColumnReview     ColumnID = "review"
	ColumnDone       ColumnID = "done"
)

// BoardColumns lists the board columns in display order.
var BoardColumns = []ColumnID{ColumnBacklog, ColumnInProgress, ColumnReview, ColumnDone}

// Valid reports whether c is one of the four board columns.
func (c ColumnID) Valid() bool {
	for _, col := range BoardColumns {
		if c == col {
			return true
		}
	}
	return false
}

// SubTaskStatus is a subtask's position on the subtask board.
type SubTaskStatus string

const (
	SubTaskTodo  SubTaskStatus = "todo"
	SubTaskDoing SubTaskStatus = "doing"
	SubTaskDone  SubTaskStatus = "done"
)

// SubTaskStatuses lists the subtask board columns in display order.
var SubTaskStatuses = []SubTaskStatus{SubTaskTodo, SubTaskDoing, SubTaskDone}

func (s SubTaskStatus) Valid() bool {
	for _, st := range SubTaskStatuses {
		if s == st {
			return true
		}
	}
	return false
}

var (
	ErrEmptyTitle       = errors.New("title is required")
	ErrInvalidColumn    = errors.New("column must be one of backlog, in_progress, review, done")
	ErrInvalidStatus    = errors.New("status must be one of backlog, in_progress, review, done")
	ErrInvalidSubTask   = errors.New("invalid subtask")
	ErrDuplicateSubTask = errors.New("duplicate subtask id")
)

// SubTask is a checklist item owned by a single task.
type SubTask struct {
	ID     int64         `json:"id"`
	Title  string        `json:"title"`
	Status SubTaskStatus `json:"status"`
}

// Task represents a card on the board
type Task struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Column      ColumnID  `json:"column"`
	Status      ColumnID  `json:"status"`
	Subtasks    []SubTask `json:"subtasks,omitempty"`
}

// NewTask is the payload for creating a task. The server assigns the id and
// mirrors Column into Status.
type NewTask struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Column      ColumnID  `json:"column"`
	Status      ColumnID  `json:"status,omitempty"`
	Subtasks    []SubTask `json:"subtasks,omitempty"`
}

// MoveTo places the task in column c. Column and status are only ever
// changed together through here.
func (t *Task) MoveTo(c ColumnID) {
	t.Column = c
	t.Status = c
}

// Clone returns a copy that shares no subtask storage with t.
func (t Task) Clone() Task {
	if t.Subtasks != nil {
		subs := make([]SubTask, len(t.Subtasks))
		copy(subs, t.Subtasks)
		t.Subtasks = subs
	}
	return t
}

// FindSubTask returns the index of the subtask with the given id.
func (t *Task) FindSubTask(id int64) (int, bool) {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Validate checks the invariants every stored task must satisfy.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Column.Valid() {
		return ErrInvalidColumn
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	seen := make(map[int64]struct{}, len(t.Subtasks))
	for _, st := range t.Subtasks {
		if strings.TrimSpace(st.Title) == "" || !st.Status.Valid() {
			return fmt.Errorf("%w %d: title and a status of todo, doing or done are required", ErrInvalidSubTask, st.ID)
		}
		if _, dup := seen[st.ID]; dup {
			return fmt.Errorf("%w %d", ErrDuplicateSubTask, st.ID)
		}
		seen[st.ID] = struct{}{}
	}
	return nil
}

// AssignSubTaskIDs gives every subtask without an id a fresh one.
func (t *Task) AssignSubTaskIDs(now time.Time) {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == 0 {
			t.Subtasks[i].ID = NextSubTaskID(t.Subtasks, now)
		}
	}
}

// NextSubTaskID returns a clock based id (unix milliseconds) that no subtask
// in subs is using yet.
func NextSubTaskID(subs []SubTask, now time.Time) int64 {
	id := now.UnixMilli()
	for _, st := range subs {
		if st.ID >= id {
			id = st.ID + 1
		}
	}
	return id
}
