package domain

import "time"

// Incident is the canonical domain object: one public police-accountability
// record. Date is normalized to UTC; JSON encodes it as RFC 3339.
type Incident struct {
	ID          int       `json:"id"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	OfficerName string    `json:"officerName"`
	Department  string    `json:"department"`
	Status      string    `json:"status"`
	Sources     []Source  `json:"sources"`
}

// Source is a citation backing an incident (news article, official report).
type Source struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Draft is a validated insert payload awaiting a storage-assigned ID.
// Only the Storage Engine turns a Draft into an Incident.
type Draft struct {
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	OfficerName string    `json:"officerName"`
	Department  string    `json:"department"`
	Status      string    `json:"status"`
	Sources     []Source  `json:"sources"`
}

// Incident attaches a storage-assigned ID to the draft.
func (d Draft) Incident(id int) Incident {
	return Incident{
		ID:          id,
		Date:        d.Date,
		Location:    d.Location,
		Description: d.Description,
		OfficerName: d.OfficerName,
		Department:  d.Department,
		Status:      d.Status,
		Sources:     d.Sources,
	}
}

// SearchParams narrows a search. Every dimension is optional: an empty
// string or zero time means "no constraint on this dimension".
type SearchParams struct {
	Location   string
	Department string
	StartDate  time.Time
	EndDate    time.Time
}
