package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"example.com/incidents-api/internal/domain"
	"example.com/incidents-api/internal/storage"
)

// IncidentStore implements the storage contract on the incidents table.
// ID monotonicity comes from the table's identity sequence, which Postgres
// never reuses even across rolled-back inserts.
type IncidentStore struct {
	db *DB
}

var _ storage.Store = (*IncidentStore)(nil)

func NewIncidentStore(db *DB) *IncidentStore { return &IncidentStore{db: db} }

const incidentCols = `id, date, location, description, officer_name, department, status, coalesce(sources, '[]'::jsonb)`

func scanIncident(row pgx.Row) (domain.Incident, error) {
	var rec domain.Incident
	var sourcesJSON []byte
	err := row.Scan(&rec.ID, &rec.Date, &rec.Location, &rec.Description,
		&rec.OfficerName, &rec.Department, &rec.Status, &sourcesJSON)
	if err != nil {
		return domain.Incident{}, err
	}
	rec.Date = rec.Date.UTC()
	if err := json.Unmarshal(sourcesJSON, &rec.Sources); err != nil {
		return domain.Incident{}, fmt.Errorf("decode sources: %w", err)
	}
	return rec, nil
}

func (s *IncidentStore) CreateIncident(ctx context.Context, draft domain.Draft) (domain.Incident, error) {
	sourcesJSON, err := json.Marshal(draft.Sources)
	if err != nil {
		return domain.Incident{}, fmt.Errorf("encode sources: %w", err)
	}

	rec := draft.Incident(0)
	row := s.db.Pool.QueryRow(ctx, `
INSERT INTO incidents (date, location, description, officer_name, department, status, sources)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
RETURNING id`,
		draft.Date, draft.Location, draft.Description, draft.OfficerName,
		draft.Department, draft.Status, string(sourcesJSON))
	if err := row.Scan(&rec.ID); err != nil {
		return domain.Incident{}, fmt.Errorf("insert incident: %w", err)
	}
	return rec, nil
}

func (s *IncidentStore) GetIncident(ctx context.Context, id int) (domain.Incident, error) {
	row := s.db.Pool.QueryRow(ctx,
		"SELECT "+incidentCols+" FROM incidents WHERE id = $1", id)
	rec, err := scanIncident(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Incident{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Incident{}, fmt.Errorf("get incident: %w", err)
	}
	return rec, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so user input matches as a
// literal substring, the same semantics the map-backed engines have.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// SearchIncidents compiles the optional filters into a WHERE clause; the
// newest-first ordering contract is enforced by ORDER BY, with ID as the
// tie-break, matching the in-memory engines.
func (s *IncidentStore) SearchIncidents(ctx context.Context, params domain.SearchParams) ([]domain.Incident, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if params.Location != "" {
		conds = append(conds, "location ILIKE '%' || "+arg(escapeLike(params.Location))+" || '%' ESCAPE '\\'")
	}
	if params.Department != "" {
		conds = append(conds, "department ILIKE '%' || "+arg(escapeLike(params.Department))+" || '%' ESCAPE '\\'")
	}
	if !params.StartDate.IsZero() {
		conds = append(conds, "date >= "+arg(params.StartDate))
	}
	if !params.EndDate.IsZero() {
		conds = append(conds, "date <= "+arg(params.EndDate))
	}

	sql := "SELECT " + incidentCols + " FROM incidents"
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY date DESC, id DESC"

	rows, err := s.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search incidents: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Incident, 0)
	for rows.Next() {
		rec, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *IncidentStore) Clear(ctx context.Context) error {
	_, err := s.db.Pool.Exec(ctx, "TRUNCATE incidents RESTART IDENTITY")
	if err != nil {
		return fmt.Errorf("clear incidents: %w", err)
	}
	return nil
}
