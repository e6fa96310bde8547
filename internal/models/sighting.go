package models

import "time"

// Sighting is one aircraft report as persisted to the sightings log: the
// identifying fields of the report plus whatever position data it carried.
// Optional fields are pointers; nil means the feed did not supply them.
type Sighting struct {
	HeardAt      time.Time
	ObjectID     string
	Callsign     *string
	Registration string
	Model        string
	Origin       *string
	Destination  *string
	Flight       *string
	Squawk       *string
	Latitude     *float64
	Longitude    *float64
	Altitude     *float64 // meters
}
