package database

import (
	"context"
	"sync"

	"kanban-board-api/internal/models"
)

// MemoryStore keeps the document for the life of the process. It is used
// where the host does not allow file writes; every restart starts again from
// the seed data and instances never see each other's changes.
type MemoryStore struct {
	mu  sync.RWMutex
	doc *models.Database
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Read hands out a copy, so callers can mutate it freely before Write.
func (s *MemoryStore) Read(ctx context.Context) *models.Database {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	if doc != nil {
		return doc.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		s.doc = models.DefaultDatabase()
	}
	return s.doc.Clone()
}

func (s *MemoryStore) Write(ctx context.Context, doc *models.Database) error {
	s.mu.Lock()
	s.doc = doc.Clone()
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return reset(ctx, s)
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
