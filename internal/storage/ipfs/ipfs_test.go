package ipfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/incidents-api/internal/domain"
	"example.com/incidents-api/internal/pinning"
	"example.com/incidents-api/internal/storage"
)

// fakePinner keeps blobs in memory and can be told to fail either direction.
type fakePinner struct {
	blobs      map[string]json.RawMessage
	failUpload bool
	failFetch  bool
	uploads    int
	fetches    int
}

func newFakePinner() *fakePinner {
	return &fakePinner{blobs: map[string]json.RawMessage{}}
}

func (f *fakePinner) Upload(_ context.Context, v any) (string, error) {
	f.uploads++
	if f.failUpload {
		return "", &pinning.UploadError{Err: errors.New("service unavailable")}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", &pinning.UploadError{Err: err}
	}
	cid := fmt.Sprintf("QmFake%04d", len(f.blobs)+1)
	f.blobs[cid] = b
	return cid, nil
}

func (f *fakePinner) Fetch(_ context.Context, cid string, out any) error {
	f.fetches++
	if f.failFetch {
		return &pinning.RetrievalError{CID: cid, Err: errors.New("gateway timeout")}
	}
	b, ok := f.blobs[cid]
	if !ok {
		return &pinning.RetrievalError{CID: cid, Err: errors.New("not pinned")}
	}
	return json.Unmarshal(b, out)
}

func draft(date, location string) domain.Draft {
	d, err := domain.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return domain.Draft{
		Date:        d,
		Location:    location,
		Description: "desc",
		OfficerName: "officer",
		Department:  "dept",
		Status:      "Open",
		Sources:     []domain.Source{},
	}
}

func TestCreateIncident(t *testing.T) {
	ctx := context.Background()

	t.Run("pins the draft and caches the record", func(t *testing.T) {
		p := newFakePinner()
		s := New(p, nil)

		rec, err := s.CreateIncident(ctx, draft("2024-01-15", "New York, NY"))
		require.NoError(t, err)
		assert.Equal(t, 1, rec.ID)
		assert.Equal(t, 1, p.uploads)
		assert.Len(t, p.blobs, 1)

		// Read back is a cache hit, no gateway round-trip.
		got, err := s.GetIncident(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
		assert.Equal(t, 0, p.fetches)
	})

	t.Run("failed upload aborts the create without consuming an id", func(t *testing.T) {
		p := newFakePinner()
		s := New(p, nil)

		p.failUpload = true
		_, err := s.CreateIncident(ctx, draft("2024-01-15", "New York, NY"))
		var ue *pinning.UploadError
		require.ErrorAs(t, err, &ue)

		// The id that would have been assigned stays unallocated.
		_, err = s.GetIncident(ctx, 1)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		// Next successful create takes id 1, proving no orphaned allocation.
		p.failUpload = false
		rec, err := s.CreateIncident(ctx, draft("2024-02-01", "Los Angeles, CA"))
		require.NoError(t, err)
		assert.Equal(t, 1, rec.ID)
	})
}

func TestGetIncident(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id is ErrNotFound", func(t *testing.T) {
		s := New(newFakePinner(), nil)
		_, err := s.GetIncident(ctx, 7)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("cache miss fetches the blob and reattaches the id", func(t *testing.T) {
		p := newFakePinner()
		s := New(p, nil)

		rec, err := s.CreateIncident(ctx, draft("2024-01-15", "New York, NY"))
		require.NoError(t, err)

		// Simulate the cache being cold while the CID map survives.
		s.mu.Lock()
		delete(s.cache, rec.ID)
		s.mu.Unlock()

		got, err := s.GetIncident(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
		assert.Equal(t, 1, p.fetches)

		// Second read is served from the backfilled cache.
		_, err = s.GetIncident(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, p.fetches)
	})

	t.Run("failed fetch degrades to not found", func(t *testing.T) {
		p := newFakePinner()
		s := New(p, nil)

		rec, err := s.CreateIncident(ctx, draft("2024-01-15", "New York, NY"))
		require.NoError(t, err)

		s.mu.Lock()
		delete(s.cache, rec.ID)
		s.mu.Unlock()
		p.failFetch = true

		_, err = s.GetIncident(ctx, rec.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestSearchIncidents(t *testing.T) {
	ctx := context.Background()
	p := newFakePinner()
	s := New(p, nil)
	require.NoError(t, storage.SeedSample(ctx, s))

	t.Run("search runs over the local cache, newest first", func(t *testing.T) {
		got, err := s.SearchIncidents(ctx, domain.SearchParams{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Los Angeles, CA", got[0].Location)
		assert.Equal(t, "New York, NY", got[1].Location)
		assert.Equal(t, "Chicago, IL", got[2].Location)
	})

	t.Run("uncached records are invisible to search", func(t *testing.T) {
		s.mu.Lock()
		delete(s.cache, 1)
		s.mu.Unlock()

		got, err := s.SearchIncidents(ctx, domain.SearchParams{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	p := newFakePinner()
	s := New(p, nil)

	_, err := s.CreateIncident(ctx, draft("2024-01-15", "New York, NY"))
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx))

	_, err = s.GetIncident(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Remote blobs cannot be unpinned; only local state resets.
	assert.Len(t, p.blobs, 1)

	rec, err := s.CreateIncident(ctx, draft("2024-02-01", "Los Angeles, CA"))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ID)
}
