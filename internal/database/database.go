package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB owns the SQLite connection behind the sightings log
type DB struct {
	db *sql.DB
}

// New creates and initializes a new database connection
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := optimizeSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to optimize database: %w", err)
	}

	database := &DB{db: db}

	if err := database.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// optimizeSQLite applies performance settings suited to small always-on hosts
func optimizeSQLite(db *sql.DB) error {
	// Enable WAL mode for better concurrency (allows concurrent reads)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Increase cache size (negative value is KiB of RAM, not pages)
	if _, err := db.Exec("PRAGMA cache_size=-64000"); err != nil {
		return fmt.Errorf("failed to set cache size: %w", err)
	}

	// NORMAL is safe under WAL since writes land in the WAL first
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA temp_store=MEMORY"); err != nil {
		return fmt.Errorf("failed to set temp_store: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// SightingRepository returns the repository over the sightings table
func (d *DB) SightingRepository() SightingRepository {
	return NewSightingRepository(d.db)
}

// initSchema creates the database schema if it doesn't exist
func (d *DB) initSchema() error {
	sightingsSchema := `CREATE TABLE IF NOT EXISTS sightings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		heard_at TIMESTAMP NOT NULL,
		object_id TEXT NOT NULL,
		callsign TEXT,
		registration TEXT,
		model TEXT,
		origin TEXT,
		destination TEXT,
		flight TEXT,
		squawk TEXT,
		latitude REAL,
		longitude REAL,
		altitude REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(object_id, heard_at)
	);`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_sightings_object_id ON sightings(object_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sightings_heard_at ON sightings(heard_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sightings_object_id_heard_at ON sightings(object_id, heard_at)`,
	}

	if _, err := d.db.Exec(sightingsSchema); err != nil {
		return fmt.Errorf("failed to create sightings table: %w", err)
	}

	for _, idx := range indexes {
		if _, err := d.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
