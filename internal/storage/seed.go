package storage

import (
	"context"
	"fmt"
	"time"

	"example.com/incidents-api/internal/domain"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// SampleDrafts returns the canonical demo records, newest ID last.
func SampleDrafts() []domain.Draft {
	return []domain.Draft{
		{
			Date:        mustDate("2024-01-15"),
			Location:    "New York, NY",
			Description: "Officer involved in excessive force complaint during arrest",
			OfficerName: "John Smith",
			Department:  "NYPD",
			Status:      "Under Investigation",
			Sources: []domain.Source{
				{URL: "https://example.com/news1", Title: "Local News Report"},
				{URL: "https://example.com/doc1", Title: "Official Police Report"},
			},
		},
		{
			Date:        mustDate("2024-02-01"),
			Location:    "Los Angeles, CA",
			Description: "Unauthorized use of force during traffic stop",
			OfficerName: "Michael Johnson",
			Department:  "LAPD",
			Status:      "Pending Review",
			Sources: []domain.Source{
				{URL: "https://example.com/news2", Title: "LA Times Report"},
			},
		},
		{
			Date:        mustDate("2023-12-10"),
			Location:    "Chicago, IL",
			Description: "Misconduct allegations during protest response",
			OfficerName: "Robert Wilson",
			Department:  "Chicago Police Department",
			Status:      "Closed",
			Sources: []domain.Source{
				{URL: "https://example.com/news3", Title: "Chicago Tribune Report"},
				{URL: "https://example.com/doc3", Title: "Internal Affairs Report"},
			},
		},
	}
}

// SeedSample loads the demo records into a store. Intended for the
// ephemeral in-memory backend; remote backends pin real traffic only.
func SeedSample(ctx context.Context, s Store) error {
	for _, d := range SampleDrafts() {
		if _, err := s.CreateIncident(ctx, d); err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}
	}
	return nil
}
