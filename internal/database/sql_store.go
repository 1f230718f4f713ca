package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"kanban-board-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// taskRow is the tasks table. Subtasks are owned by the task and have no
// lifecycle of their own, so they are kept as a JSON column.
type taskRow struct {
	ID          string `gorm:"primaryKey"`
	NumericID   bool   `gorm:"column:numeric_id"`
	Title       string `gorm:"not null"`
	Description string
	Column      string `gorm:"column:board_column;not null"`
	Status      string `gorm:"not null"`
	Subtasks    string `gorm:"type:text"`
	Position    int    `gorm:"index"`
}

// TableName specifies the table name for taskRow
func (taskRow) TableName() string {
	return "tasks"
}

type columnRow struct {
	ID       string `gorm:"primaryKey"`
	Title    string `gorm:"not null"`
	Position int
}

func (columnRow) TableName() string {
	return "board_columns"
}

// metaRow marks that a document has been written at least once, which is
// what separates "empty board" from "nothing persisted yet".
type metaRow struct {
	Key   string `gorm:"column:name;primaryKey"`
	Value string
}

func (metaRow) TableName() string {
	return "store_meta"
}

const writtenKey = "written_at"

// SQLStore keeps the document in SQLite through GORM.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQLStore opens (creating if needed) the SQLite database at path and
// migrates its schema.
func OpenSQLStore(path string, debug bool) (*SQLStore, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	// glebarez/sqlite is a pure Go driver, no CGO required
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := NewSQLStore(db)
	if err != nil {
		return nil, err
	}
	log.Printf("SQLite store ready at %s", path)
	return store, nil
}

// NewSQLStore wraps an open GORM connection, running migrations first.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

// AutoMigrate creates the store tables if they don't exist.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&taskRow{}, &columnRow{}, &metaRow{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *SQLStore) Read(ctx context.Context) *models.Database {
	db := s.db.WithContext(ctx)

	var meta metaRow
	if err := db.Where("name = ?", writtenKey).Limit(1).Find(&meta).Error; err != nil {
		log.Printf("Error reading store metadata: %v", err)
		return models.DefaultDatabase()
	}
	if meta.Key == "" {
		return models.DefaultDatabase()
	}

	var rows []taskRow
	if err := db.Order("position asc").Find(&rows).Error; err != nil {
		log.Printf("Error reading tasks: %v", err)
		return models.DefaultDatabase()
	}
	var cols []columnRow
	if err := db.Order("position asc").Find(&cols).Error; err != nil {
		log.Printf("Error reading columns: %v", err)
		return models.DefaultDatabase()
	}

	doc := &models.Database{Tasks: make([]models.Task, 0, len(rows))}
	for _, r := range rows {
		task, err := r.toTask()
		if err != nil {
			log.Printf("Error decoding task %s: %v", r.ID, err)
			return models.DefaultDatabase()
		}
		doc.Tasks = append(doc.Tasks, task)
	}
	for _, c := range cols {
		doc.Columns = append(doc.Columns, models.Column{ID: models.ColumnID(c.ID), Title: c.Title})
	}
	return doc
}

// Write replaces both tables inside one transaction.
func (s *SQLStore) Write(ctx context.Context, doc *models.Database) error {
	tasks := make([]taskRow, 0, len(doc.Tasks))
	for i, t := range doc.Tasks {
		row, err := newTaskRow(t, i)
		if err != nil {
			return err
		}
		tasks = append(tasks, row)
	}
	cols := make([]columnRow, 0, len(doc.Columns))
	for i, c := range doc.Columns {
		cols = append(cols, columnRow{ID: string(c.ID), Title: c.Title, Position: i})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM tasks").Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM board_columns").Error; err != nil {
			return err
		}
		if len(tasks) > 0 {
			if err := tx.Create(&tasks).Error; err != nil {
				return err
			}
		}
		if len(cols) > 0 {
			if err := tx.Create(&cols).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM store_meta WHERE name = ?", writtenKey).Error; err != nil {
			return err
		}
		return tx.Create(&metaRow{Key: writtenKey, Value: time.Now().UTC().Format(time.RFC3339Nano)}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}
	return nil
}

func (s *SQLStore) Reset(ctx context.Context) error {
	return reset(ctx, s)
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newTaskRow(t models.Task, position int) (taskRow, error) {
	row := taskRow{
		ID:          t.ID.String(),
		NumericID:   t.ID.IsNumeric(),
		Title:       t.Title,
		Description: t.Description,
		Column:      string(t.Column),
		Status:      string(t.Status),
		Position:    position,
	}
	if t.Subtasks != nil {
		subs, err := json.Marshal(t.Subtasks)
		if err != nil {
			return taskRow{}, fmt.Errorf("failed to encode subtasks of task %s: %w", t.ID, err)
		}
		row.Subtasks = string(subs)
	}
	return row, nil
}

func (r taskRow) toTask() (models.Task, error) {
	t := models.Task{
		ID:          models.RestoreID(r.ID, r.NumericID),
		Title:       r.Title,
		Description: r.Description,
		Column:      models.ColumnID(r.Column),
		Status:      models.ColumnID(r.Status),
	}
	if r.Subtasks != "" {
		if err := json.Unmarshal([]byte(r.Subtasks), &t.Subtasks); err != nil {
			return models.Task{}, err
		}
	}
	return t, nil
}

var _ Store = (*SQLStore)(nil)
