package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"kanban-board-api/internal/models"
)

// FileStore keeps the document in a JSON file on disk.
type FileStore struct {
	path string
	// mu only keeps two writes from interleaving their renames.
	mu sync.Mutex
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = "db.json"
	}
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Read(ctx context.Context) *models.Database {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("database file %s not found, using default data", s.path)
		} else {
			log.Printf("Error reading database %s: %v", s.path, err)
		}
		return models.DefaultDatabase()
	}

	var doc models.Database
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("Error parsing database %s: %v", s.path, err)
		return models.DefaultDatabase()
	}
	return &doc
}

// Write serializes doc with two-space indentation and swaps it in through a
// temporary file so readers never see a partial document.
func (s *FileStore) Write(ctx context.Context, doc *models.Database) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode database: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "db-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempFile.Name())
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	filename := tempFile.Name()
	tempFile = nil

	if err := os.Rename(filename, s.path); err != nil {
		os.Remove(filename)
		return fmt.Errorf("failed to replace database file: %w", err)
	}
	return nil
}

func (s *FileStore) Reset(ctx context.Context) error {
	return reset(ctx, s)
}

func (s *FileStore) Close() error {
	return nil
}

var _ Store = (*FileStore)(nil)
