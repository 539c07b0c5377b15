// Package ipfs implements the remote-pinned storage backend: the canonical
// copy of every record is a JSON blob pinned to a content-addressed store,
// with an in-process cache as the fast read path.
//
// Known limitation: search runs over the local cache only. The remote store
// can't be queried, only read blob-by-CID, so records not yet cached (e.g.
// after a restart) stay invisible to search until fetched individually.
package ipfs

import (
	"context"
	"log"
	"sync"

	"example.com/incidents-api/internal/domain"
	"example.com/incidents-api/internal/metrics"
	"example.com/incidents-api/internal/pinning"
	"example.com/incidents-api/internal/search"
	"example.com/incidents-api/internal/storage"
)

// Store tracks two maps: confirmed records by ID (the cache) and the CID
// under which each record's canonical blob is pinned.
type Store struct {
	pinner pinning.Pinner
	m      *metrics.Metrics

	mu     sync.Mutex
	cache  map[int]domain.Incident
	cids   map[int]string
	nextID int
}

var _ storage.Store = (*Store)(nil)

// New wires a backend around a pinning client. m may be nil.
func New(pinner pinning.Pinner, m *metrics.Metrics) *Store {
	return &Store{
		pinner: pinner,
		m:      m,
		cache:  make(map[int]domain.Incident),
		cids:   make(map[int]string),
		nextID: 1,
	}
}

// CreateIncident pins first and commits second: the ID is allocated only
// after the upload succeeds, so a failed upload leaves no orphaned ID and
// no cache entry claiming durability it doesn't have. The pinned blob is
// the draft; the ID is reattached on retrieval.
func (s *Store) CreateIncident(ctx context.Context, draft domain.Draft) (domain.Incident, error) {
	cid, err := s.pinner.Upload(ctx, draft)
	s.m.ObservePin("upload", err)
	if err != nil {
		return domain.Incident{}, err
	}

	s.mu.Lock()
	rec := draft.Incident(s.nextID)
	s.nextID++
	s.cache[rec.ID] = rec
	s.cids[rec.ID] = cid
	s.mu.Unlock()

	log.Printf("[ipfs] pinned incident id=%d cid=%s", rec.ID, cid)
	return rec, nil
}

// GetIncident serves cache hits without a remote round-trip. On a miss it
// fetches the blob for the tracked CID, reattaches the ID and backfills the
// cache. A failed fetch is logged and reported as not-found rather than
// crashing the request.
func (s *Store) GetIncident(ctx context.Context, id int) (domain.Incident, error) {
	s.mu.Lock()
	rec, ok := s.cache[id]
	cid, haveCID := s.cids[id]
	s.mu.Unlock()

	s.m.ObserveCacheLookup(ok)
	if ok {
		return rec, nil
	}
	if !haveCID {
		return domain.Incident{}, storage.ErrNotFound
	}

	var draft domain.Draft
	err := s.pinner.Fetch(ctx, cid, &draft)
	s.m.ObservePin("fetch", err)
	if err != nil {
		log.Printf("[ipfs] fetch failed id=%d cid=%s: %v", id, cid, err)
		return domain.Incident{}, storage.ErrNotFound
	}

	rec = draft.Incident(id)
	s.mu.Lock()
	s.cache[id] = rec
	s.mu.Unlock()
	return rec, nil
}

// SearchIncidents filters the local cache only; see the package comment.
func (s *Store) SearchIncidents(_ context.Context, params domain.SearchParams) ([]domain.Incident, error) {
	s.mu.Lock()
	snapshot := make([]domain.Incident, 0, len(s.cache))
	for _, rec := range s.cache {
		snapshot = append(snapshot, rec)
	}
	s.mu.Unlock()

	return search.Filter(snapshot, params), nil
}

// Clear wipes the cache and CID map and resets the ID counter. Pinned
// blobs stay on the remote store; the pinning protocol has no delete.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = make(map[int]domain.Incident)
	s.cids = make(map[int]string)
	s.nextID = 1
	return nil
}
