package models

import (
	"strconv"
	"time"
)

// Database is the whole persisted document.
type Database struct {
	Tasks   []Task   `json:"tasks"`
	Columns []Column `json:"columns,omitempty"`
}

// DefaultDatabase returns the seed document used when nothing has been
// persisted yet. Every call returns fresh storage.
func DefaultDatabase() *Database {
	return &Database{
		Tasks: []Task{
			{
				ID:          StringID("1"),
				Title:       "Welcome to Kanban Board",
				Description: "This is a sample task. You can drag and drop tasks between columns, edit them, or create new ones!",
				Column:      ColumnBacklog,
				Status:      ColumnBacklog,
			},
			{
				ID:          StringID("2"),
				Title:       "Create Your First Task",
				Description: "Click the + button in any column to add a new task",
				Column:      ColumnInProgress,
				Status:      ColumnInProgress,
			},
			{
				ID:          StringID("3"),
				Title:       "Try Drag and Drop",
				Description: "Drag tasks between columns to change their status",
				Column:      ColumnReview,
				Status:      ColumnReview,
			},
		},
		Columns: DefaultColumns(),
	}
}

// Clone deep-copies the document.
func (d *Database) Clone() *Database {
	if d == nil {
		return nil
	}
	out := &Database{}
	if d.Tasks != nil {
		out.Tasks = make([]Task, len(d.Tasks))
		for i, t := range d.Tasks {
			out.Tasks[i] = t.Clone()
		}
	}
	if d.Columns != nil {
		out.Columns = make([]Column, len(d.Columns))
		copy(out.Columns, d.Columns)
	}
	return out
}

// FindTask returns the index of the task with the given id.
func (d *Database) FindTask(id ID) (int, bool) {
	for i := range d.Tasks {
		if d.Tasks[i].ID.Equal(id) {
			return i, true
		}
	}
	return -1, false
}

// NextTaskID returns a time based numeric-string id that is larger than any
// numeric id already in the document.
func (d *Database) NextTaskID(now time.Time) ID {
	next := now.UnixMilli()
	for _, t := range d.Tasks {
		if n, ok := t.ID.Int(); ok && n >= next {
			next = n + 1
		}
	}
	return StringID(strconv.FormatInt(next, 10))
}
