package database

import (
	"database/sql"
	"fmt"

	"github.com/s-martin/shinysdr/internal/models"
)

// SightingRepository is the storage interface for the sightings log
type SightingRepository interface {
	InsertBatch(sightings []*models.Sighting) error
	Recent(limit int) ([]*models.Sighting, error)
}

type sightingRepository struct {
	db *sql.DB
}

func NewSightingRepository(db *sql.DB) SightingRepository {
	return &sightingRepository{db: db}
}

// InsertBatch inserts one or more sightings in a single transaction.
// Batching is preferred over individual inserts since every poll produces a
// burst of rows.
func (r *sightingRepository) InsertBatch(sightings []*models.Sighting) error {
	if len(sightings) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO sightings (
		heard_at, object_id, callsign, registration, model,
		origin, destination, flight, squawk,
		latitude, longitude, altitude
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range sightings {
		if _, err := stmt.Exec(
			s.HeardAt,
			s.ObjectID,
			s.Callsign,
			s.Registration,
			s.Model,
			s.Origin,
			s.Destination,
			s.Flight,
			s.Squawk,
			s.Latitude,
			s.Longitude,
			s.Altitude,
		); err != nil {
			return fmt.Errorf("failed to insert sighting: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Recent returns the newest sightings, most recent first.
func (r *sightingRepository) Recent(limit int) ([]*models.Sighting, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(`SELECT
		heard_at, object_id, callsign, registration, model,
		origin, destination, flight, squawk,
		latitude, longitude, altitude
	FROM sightings ORDER BY heard_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sightings: %w", err)
	}
	defer rows.Close()

	var out []*models.Sighting
	for rows.Next() {
		s := &models.Sighting{}
		var registration, model sql.NullString
		if err := rows.Scan(
			&s.HeardAt,
			&s.ObjectID,
			&s.Callsign,
			&registration,
			&model,
			&s.Origin,
			&s.Destination,
			&s.Flight,
			&s.Squawk,
			&s.Latitude,
			&s.Longitude,
			&s.Altitude,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sighting: %w", err)
		}
		s.Registration = registration.String
		s.Model = model.String
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sightings: %w", err)
	}
	return out, nil
}
