package database

import (
	"context"
	"errors"
	"fmt"

	"kanban-board-api/internal/models"
)

// Store persists the board document as a whole. Callers read the full
// document, change it in memory and write it back; nothing serializes that
// cycle, so concurrent writers race and the last one wins.
type Store interface {
	// Read returns the current document. When nothing usable is persisted it
	// returns the seeded default document instead of failing.
	Read(ctx context.Context) *models.Database

	// Write replaces the persisted document.
	Write(ctx context.Context, doc *models.Database) error

	// Reset replaces the persisted document with the seed data.
	Reset(ctx context.Context) error

	Close() error
}

// Drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Options selects and configures a Store backend.
type Options struct {
	Driver     string
	Path       string // JSON document for the file driver
	SQLitePath string
	Debug      bool
}

// Open builds the Store named by opts.Driver.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFileStore(opts.Path), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return OpenSQLStore(opts.SQLitePath, opts.Debug)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// LookupTask returns the index of the task with the given id in doc.
func LookupTask(doc *models.Database, id models.ID) (int, error) {
	i, ok := doc.FindTask(id)
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return i, nil
}

func reset(ctx context.Context, s Store) error {
	return s.Write(ctx, models.DefaultDatabase())
}
