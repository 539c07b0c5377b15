// Package memory implements the ephemeral in-process storage backend.
// Nothing survives a restart; this variant exists for demos and tests.
package memory

import (
	"context"
	"sync"

	"example.com/incidents-api/internal/domain"
	"example.com/incidents-api/internal/search"
	"example.com/incidents-api/internal/storage"
)

// Store keeps the full record set in a map keyed by ID. A mutex guards the
// map and the ID counter so concurrent handlers never race on allocation.
type Store struct {
	mu        sync.RWMutex
	incidents map[int]domain.Incident
	nextID    int
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		incidents: make(map[int]domain.Incident),
		nextID:    1,
	}
}

func (s *Store) GetIncident(_ context.Context, id int) (domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.incidents[id]
	if !ok {
		return domain.Incident{}, storage.ErrNotFound
	}
	return rec, nil
}

func (s *Store) SearchIncidents(_ context.Context, params domain.SearchParams) ([]domain.Incident, error) {
	s.mu.RLock()
	snapshot := make([]domain.Incident, 0, len(s.incidents))
	for _, rec := range s.incidents {
		snapshot = append(snapshot, rec)
	}
	s.mu.RUnlock()

	return search.Filter(snapshot, params), nil
}

// CreateIncident cannot fail: validation already happened upstream and the
// map write is infallible.
func (s *Store) CreateIncident(_ context.Context, draft domain.Draft) (domain.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := draft.Incident(s.nextID)
	s.nextID++
	s.incidents[rec.ID] = rec
	return rec, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.incidents = make(map[int]domain.Incident)
	s.nextID = 1
	return nil
}
