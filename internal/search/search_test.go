package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/incidents-api/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// Fixture order is deliberately not date order: the store hands records over
// in map iteration order and the filter must not care.
func fixture() []domain.Incident {
	return []domain.Incident{
		{ID: 1, Date: date("2024-01-15"), Location: "New York, NY", Department: "NYPD"},
		{ID: 2, Date: date("2024-02-01"), Location: "Los Angeles, CA", Department: "LAPD"},
		{ID: 3, Date: date("2023-12-10"), Location: "Chicago, IL", Department: "Chicago Police Department"},
	}
}

func locations(recs []domain.Incident) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Location)
	}
	return out
}

func TestFilter(t *testing.T) {
	t.Run("no filters returns everything newest first", func(t *testing.T) {
		got := Filter(fixture(), domain.SearchParams{})
		assert.Equal(t, []string{"Los Angeles, CA", "New York, NY", "Chicago, IL"}, locations(got))
	})

	t.Run("location match is case-insensitive substring", func(t *testing.T) {
		got := Filter(fixture(), domain.SearchParams{Location: "new york"})
		require.Len(t, got, 1)
		assert.Equal(t, "New York, NY", got[0].Location)
	})

	t.Run("department match is case-insensitive substring", func(t *testing.T) {
		got := Filter(fixture(), domain.SearchParams{Department: "lapd"})
		require.Len(t, got, 1)
		assert.Equal(t, "Los Angeles, CA", got[0].Location)
	})

	t.Run("date range is inclusive on both ends", func(t *testing.T) {
		got := Filter(fixture(), domain.SearchParams{
			StartDate: date("2024-01-01"),
			EndDate:   date("2024-01-31"),
		})
		require.Len(t, got, 1)
		assert.Equal(t, "New York, NY", got[0].Location)

		exact := Filter(fixture(), domain.SearchParams{
			StartDate: date("2024-01-15"),
			EndDate:   date("2024-01-15"),
		})
		require.Len(t, exact, 1)
	})

	t.Run("filters are ANDed", func(t *testing.T) {
		got := Filter(fixture(), domain.SearchParams{
			Location:  "new york",
			StartDate: date("2024-02-01"),
		})
		assert.Empty(t, got)
	})

	t.Run("filtered results keep newest-first ordering", func(t *testing.T) {
		got := Filter(fixture(), domain.SearchParams{StartDate: date("2023-01-01")})
		require.Len(t, got, 3)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].Date.After(got[i-1].Date))
		}
	})

	t.Run("equal dates tie-break on higher id", func(t *testing.T) {
		recs := []domain.Incident{
			{ID: 1, Date: date("2024-03-01")},
			{ID: 2, Date: date("2024-03-01")},
		}
		got := Filter(recs, domain.SearchParams{})
		require.Len(t, got, 2)
		assert.Equal(t, 2, got[0].ID)
	})

	t.Run("empty input yields empty non-nil result", func(t *testing.T) {
		got := Filter(nil, domain.SearchParams{})
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}
