package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FieldError represents a single field's validation error.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// DraftInput is the loosely-typed insert payload as it arrives on the wire,
// before validation. Date stays a string here so a malformed value is a
// field error rather than a JSON decode failure.
type DraftInput struct {
	Date        string        `json:"date"`
	Location    string        `json:"location"`
	Description string        `json:"description"`
	OfficerName string        `json:"officerName"`
	Department  string        `json:"department"`
	Status      string        `json:"status"`
	Sources     []SourceInput `json:"sources"`
}

type SourceInput struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ParseDate accepts an RFC 3339 timestamp or a bare ISO date (YYYY-MM-DD)
// and normalizes to UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("not an ISO date: %q", s)
	}
	return t.UTC(), nil
}

// ValidateDraft checks every rule and reports every violation, not just the
// first, so callers can annotate each invalid field. On success the returned
// Draft has its date coerced to a UTC timestamp and a non-nil Sources slice.
func ValidateDraft(in *DraftInput) (Draft, []FieldError) {
	var errs []FieldError

	required := []struct {
		field string
		value string
	}{
		{"location", in.Location},
		{"description", in.Description},
		{"officerName", in.OfficerName},
		{"department", in.Department},
		{"status", in.Status},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, FieldError{f.field, "required"})
		}
	}

	var date time.Time
	if strings.TrimSpace(in.Date) == "" {
		errs = append(errs, FieldError{"date", "required ISO date"})
	} else {
		var err error
		date, err = ParseDate(in.Date)
		if err != nil {
			errs = append(errs, FieldError{"date", "must be an ISO date (YYYY-MM-DD or RFC 3339)"})
		}
	}

	// Sources are optional (empty is fine), but each supplied source needs a
	// well-formed URL and a non-empty title.
	sources := make([]Source, 0, len(in.Sources))
	for i, s := range in.Sources {
		ok := true
		if u, err := url.Parse(s.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, FieldError{fmt.Sprintf("sources[%d].url", i), "must be a valid URL"})
			ok = false
		}
		if strings.TrimSpace(s.Title) == "" {
			errs = append(errs, FieldError{fmt.Sprintf("sources[%d].title", i), "required"})
			ok = false
		}
		if ok {
			sources = append(sources, Source{URL: s.URL, Title: s.Title})
		}
	}

	if len(errs) > 0 {
		return Draft{}, errs
	}
	return Draft{
		Date:        date,
		Location:    in.Location,
		Description: in.Description,
		OfficerName: in.OfficerName,
		Department:  in.Department,
		Status:      in.Status,
		Sources:     sources,
	}, nil
}

// ParseSearchParams validates query-string search filters. All filters are
// optional; supplied dates must parse.
func ParseSearchParams(q url.Values) (SearchParams, []FieldError) {
	var errs []FieldError
	p := SearchParams{
		Location:   strings.TrimSpace(q.Get("location")),
		Department: strings.TrimSpace(q.Get("department")),
	}

	if v := strings.TrimSpace(q.Get("startDate")); v != "" {
		t, err := ParseDate(v)
		if err != nil {
			errs = append(errs, FieldError{"startDate", "must be an ISO date"})
		} else {
			p.StartDate = t
		}
	}
	if v := strings.TrimSpace(q.Get("endDate")); v != "" {
		t, err := ParseDate(v)
		if err != nil {
			errs = append(errs, FieldError{"endDate", "must be an ISO date"})
		} else {
			p.EndDate = t
		}
	}

	if len(errs) > 0 {
		return SearchParams{}, errs
	}
	return p, nil
}
