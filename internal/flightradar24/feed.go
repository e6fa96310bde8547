package flightradar24

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/s-martin/shinysdr/internal/models"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

// Unit conversions from the feed's aviation units to the SI units tracks
// carry.
const (
	metersPerFoot          = 0.3048
	knotsToMetersPerSecond = 1852.0 / 3600.0
	// feet/minute to meters/second
	climbToMetersPerSecond = metersPerFoot / 60.0
)

// Feed array indices, per the flightradar24 feed format. Each aircraft is a
// positional JSON array.
const (
	fieldLatitude     = 1
	fieldLongitude    = 2
	fieldBearing      = 3 // degrees
	fieldAltitude     = 4 // feet
	fieldSpeed        = 5 // knots
	fieldSquawk       = 6
	fieldModel        = 8 // ICAO type designator
	fieldRegistration = 9
	fieldTimestamp    = 10 // unix seconds
	fieldOrigin       = 11 // IATA
	fieldDestination  = 12 // IATA
	fieldFlight       = 13
	fieldRateOfClimb  = 15 // feet/minute
	fieldCallsign     = 16
	minFeedFields     = 17
)

// update is one positional feed record, addressed to one aircraft object.
type update struct {
	id     string
	fields []any
}

// ObjectID implements telemetry.Message.
func (u *update) ObjectID() string { return u.id }

// NewObject implements telemetry.Message.
func (u *update) NewObject() telemetry.Object { return newAircraft(u.id) }

// decodeFeed parses a feed response body. The body is a JSON object whose
// array-valued entries are aircraft records; everything else (counters,
// version markers) is skipped. Records too short to address are dropped.
func decodeFeed(body []byte) ([]*update, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode feed body: %w", err)
	}

	updates := make([]*update, 0, len(raw))
	for id, entry := range raw {
		var fields []any
		if err := json.Unmarshal(entry, &fields); err != nil {
			continue // non-aircraft entry
		}
		if len(fields) < minFeedFields {
			continue
		}
		updates = append(updates, &update{id: id, fields: fields})
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].id < updates[j].id })
	return updates, nil
}

// heardAt is the record's own timestamp, or the zero time when absent.
func (u *update) heardAt() time.Time {
	if ts, ok := u.float(fieldTimestamp); ok {
		return time.Unix(int64(ts), 0)
	}
	return time.Time{}
}

// applyTrack merges the record's kinematic samples into t. Zero-valued
// samples are treated as absent, keeping whatever was heard before.
func (u *update) applyTrack(t *telemetry.Track, heard time.Time) {
	lat, latOK := u.float(fieldLatitude)
	lon, lonOK := u.float(fieldLongitude)
	if latOK && lonOK {
		t.Latitude = telemetry.MakeItem(lat, heard)
		t.Longitude = telemetry.MakeItem(lon, heard)
	}
	if alt, ok := u.float(fieldAltitude); ok {
		t.Altitude = telemetry.MakeItem(alt*metersPerFoot, heard)
	}
	if speed, ok := u.float(fieldSpeed); ok {
		t.HSpeed = telemetry.MakeItem(speed*knotsToMetersPerSecond, heard)
	}
	if bearing, ok := u.float(fieldBearing); ok {
		t.Heading = telemetry.MakeItem(bearing, heard)
		t.TrackAngle = telemetry.MakeItem(bearing, heard)
	}
	if climb, ok := u.float(fieldRateOfClimb); ok {
		t.VSpeed = telemetry.MakeItem(climb*climbToMetersPerSecond, heard)
	}
}

// flightInfo builds the record's flight info. The info is replaced wholesale
// on every report, so absent fields come back as nil.
func (u *update) flightInfo() FlightInfo {
	return FlightInfo{
		Callsign:     u.str(fieldCallsign),
		Registration: stringOrEmpty(u.str(fieldRegistration)),
		Origin:       u.str(fieldOrigin),
		Destination:  u.str(fieldDestination),
		Flight:       u.str(fieldFlight),
		SquawkCode:   u.str(fieldSquawk),
		Model:        stringOrEmpty(u.str(fieldModel)),
	}
}

// sighting builds the persistence record for this report.
func (u *update) sighting() *models.Sighting {
	heard := u.heardAt()
	if heard.IsZero() {
		heard = time.Now()
	}
	s := &models.Sighting{
		HeardAt:      heard,
		ObjectID:     u.id,
		Callsign:     u.str(fieldCallsign),
		Registration: stringOrEmpty(u.str(fieldRegistration)),
		Model:        stringOrEmpty(u.str(fieldModel)),
		Origin:       u.str(fieldOrigin),
		Destination:  u.str(fieldDestination),
		Flight:       u.str(fieldFlight),
		Squawk:       u.str(fieldSquawk),
	}
	if lat, ok := u.float(fieldLatitude); ok {
		s.Latitude = &lat
	}
	if lon, ok := u.float(fieldLongitude); ok {
		s.Longitude = &lon
	}
	if alt, ok := u.float(fieldAltitude); ok {
		meters := alt * metersPerFoot
		s.Altitude = &meters
	}
	return s
}

// float reads a numeric field. Zero means "not reported" in this feed, so it
// is treated as absent.
func (u *update) float(i int) (float64, bool) {
	if i >= len(u.fields) {
		return 0, false
	}
	v, ok := u.fields[i].(float64)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

// str reads a string field; empty strings are absent.
func (u *update) str(i int) *string {
	if i >= len(u.fields) {
		return nil
	}
	v, ok := u.fields[i].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func stringOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
