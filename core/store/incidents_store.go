package store

import (
	"context"
	"database/sql"
	"time"
)

type Incident struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Severity    string    `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
}

type IncidentsStore interface {
	CreateIncident(ctx context.Context, incident *Incident) (int64, error)
	ListIncidents(ctx context.Context) ([]Incident, error)
}

type incidentsStore struct {
	db *sql.DB
}

func NewIncidentsStore(db *sql.DB) IncidentsStore {
	return &incidentsStore{db: db}
}

func (s *incidentsStore) CreateIncident(ctx context.Context, incident *Incident) (int64, error) {
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO incidents(title, description, location, severity, created_at)
		VALUES(?,?,?,?,?)`,
		incident.Title, incident.Description, incident.Location, incident.Severity, incident.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	incident.ID = id
	return id, nil
}

// ListIncidents returns every incident in insertion order.
func (s *incidentsStore) ListIncidents(ctx context.Context) ([]Incident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, location, severity, created_at
		FROM incidents ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Incident
	for rows.Next() {
		var inc Incident
		if err := rows.Scan(&inc.ID, &inc.Title, &inc.Description, &inc.Location, &inc.Severity, &inc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}
