package database

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s-martin/shinysdr/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	// Create a temporary database file
	tmpFile := "/tmp/test_sightings_" + t.Name() + ".db"
	// Clean up any existing test database
	os.Remove(tmpFile)

	db, err := New(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, db)

	return db
}

func cleanupTestDB(t *testing.T, db *DB) {
	if db != nil {
		err := db.Close()
		assert.NoError(t, err)
	}
	tmpFile := "/tmp/test_sightings_" + t.Name() + ".db"
	os.Remove(tmpFile)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestNew(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	assert.NotNil(t, db)
}

func TestInsertSightingsBatch(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	repo := db.SightingRepository()

	sightings := []*models.Sighting{
		{
			HeardAt:      time.Now(),
			ObjectID:     "2f4e85c3",
			Callsign:     strPtr("KLM641"),
			Registration: "PH-BXA",
			Model:        "B738",
			Origin:       strPtr("AMS"),
			Destination:  strPtr("JFK"),
			Squawk:       strPtr("1714"),
			Latitude:     floatPtr(52.3086),
			Longitude:    floatPtr(4.7639),
			Altitude:     floatPtr(11582.4),
		},
		{
			HeardAt:  time.Now().Add(time.Second),
			ObjectID: "2f4e85c4",
		},
	}

	err := repo.InsertBatch(sightings)
	assert.NoError(t, err)
}

func TestInsertSightingsBatch_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	repo := db.SightingRepository()

	// Empty batch should not error
	err := repo.InsertBatch([]*models.Sighting{})
	assert.NoError(t, err)
}

func TestInsertSightingsBatch_Duplicates(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	repo := db.SightingRepository()

	s := &models.Sighting{
		HeardAt:      time.Unix(1500000000, 0),
		ObjectID:     "2f4e85c3",
		Callsign:     strPtr("KLM641"),
		Registration: "PH-BXA",
	}

	// Should not error, duplicates are ignored
	err := repo.InsertBatch([]*models.Sighting{s, s})
	assert.NoError(t, err)

	recent, err := repo.Recent(10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestRecent(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	repo := db.SightingRepository()

	base := time.Unix(1500000000, 0).UTC()
	var sightings []*models.Sighting
	for i := 0; i < 5; i++ {
		sightings = append(sightings, &models.Sighting{
			HeardAt:  base.Add(time.Duration(i) * time.Second),
			ObjectID: "aircraft-" + string(rune('a'+i)),
			Callsign: strPtr("CS"),
		})
	}
	require.NoError(t, repo.InsertBatch(sightings))

	recent, err := repo.Recent(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Most recent first
	assert.Equal(t, "aircraft-e", recent[0].ObjectID)
	assert.Equal(t, "aircraft-d", recent[1].ObjectID)
	assert.Equal(t, "aircraft-c", recent[2].ObjectID)
	require.NotNil(t, recent[0].Callsign)
	assert.Equal(t, "CS", *recent[0].Callsign)

	// Nullable columns come back nil
	assert.Nil(t, recent[0].Latitude)
	assert.Equal(t, "", recent[0].Registration)
}
