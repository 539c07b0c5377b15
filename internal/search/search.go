// Package search filters and orders incident record sets. It is a pure
// function over a snapshot: storage backends hand it their current records
// and it never touches the backends themselves.
package search

import (
	"sort"
	"strings"

	"example.com/incidents-api/internal/domain"
)

// Filter returns the records matching every supplied constraint, sorted by
// date descending. Newest-first ordering is part of the contract regardless
// of which filters were applied; ties fall back to higher ID first so the
// result is deterministic.
func Filter(records []domain.Incident, p domain.SearchParams) []domain.Incident {
	out := make([]domain.Incident, 0, len(records))
	for _, rec := range records {
		if !matches(rec, p) {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func matches(rec domain.Incident, p domain.SearchParams) bool {
	if p.Location != "" && !containsFold(rec.Location, p.Location) {
		return false
	}
	if p.Department != "" && !containsFold(rec.Department, p.Department) {
		return false
	}
	if !p.StartDate.IsZero() && rec.Date.Before(p.StartDate) {
		return false
	}
	if !p.EndDate.IsZero() && rec.Date.After(p.EndDate) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
