// Package storage defines the authoritative record-set contract shared by
// every backend. The interface is deliberately narrow: the canonical store
// never exposes update or delete, matching the public-records product scope.
package storage

import (
	"context"
	"errors"

	"example.com/incidents-api/internal/domain"
)

// ErrNotFound is returned when no incident carries the requested ID.
// A missing record is an expected outcome, never a panic or a 5xx.
var ErrNotFound = errors.New("incident not found")

// Store is the storage engine contract. All backends satisfy identical
// semantics:
//
//   - GetIncident returns ErrNotFound for unknown IDs.
//   - SearchIncidents never fails on "no matches"; it returns an empty
//     slice sorted by date descending.
//   - CreateIncident assigns a unique, monotonically increasing ID
//     (starting at 1) and returns the completed record. IDs are never
//     reused within a process lifetime.
//   - Clear wipes local state and resets the ID counter; administrative
//     and test use only.
type Store interface {
	GetIncident(ctx context.Context, id int) (domain.Incident, error)
	SearchIncidents(ctx context.Context, params domain.SearchParams) ([]domain.Incident, error)
	CreateIncident(ctx context.Context, draft domain.Draft) (domain.Incident, error)
	Clear(ctx context.Context) error
}
