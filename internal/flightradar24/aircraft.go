// Package flightradar24 integrates the flightradar24 aircraft feed into the
// console: a polling feed client, the aircraft telemetry object it maintains,
// and the widgets and map layer that present tracked aircraft.
package flightradar24

import (
	"sync"
	"time"

	"github.com/s-martin/shinysdr/internal/cells"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

// IAircraft is the capability name aircraft objects advertise, used to bind
// the aircraft widget and the map layer's feature set.
const IAircraft = "shinysdr.plugins.flightradar24.IAircraft"

// dropUnheardTimeout is how long an aircraft survives without a report.
const dropUnheardTimeout = 60 * time.Second

// FlightInfo is the non-kinematic state of one aircraft as reported by the
// feed. Airport codes are IATA; Model is the ICAO type designator. Pointer
// fields are nil when the feed did not supply them.
type FlightInfo struct {
	Callsign     *string // ICAO ATC call signature
	Registration string
	Origin       *string // airport IATA code
	Destination  *string // airport IATA code
	Flight       *string
	SquawkCode   *string // transponder code
	Model        string  // ICAO aircraft type designator
}

// Aircraft is one tracked aircraft. Its track and flight info are exposed as
// cells so widgets and the map layer re-render on change.
type Aircraft struct {
	id         string
	track      *cells.Cell[telemetry.Track]
	flightInfo *cells.Cell[FlightInfo]

	mu        sync.Mutex
	lastHeard time.Time
}

func newAircraft(id string) *Aircraft {
	return &Aircraft{
		id:         id,
		track:      cells.NewCell(telemetry.Track{}),
		flightInfo: cells.NewCell(FlightInfo{}),
	}
}

// ID returns the feed's object identifier for this aircraft.
func (a *Aircraft) ID() string { return a.id }

// TrackCell returns the aircraft's kinematic state cell.
func (a *Aircraft) TrackCell() *cells.Cell[telemetry.Track] { return a.track }

// FlightInfoCell returns the aircraft's flight info cell.
func (a *Aircraft) FlightInfoCell() *cells.Cell[FlightInfo] { return a.flightInfo }

// Receive implements telemetry.Object. A report replaces the flight info
// wholesale and merges fresh track samples over the previous ones.
func (a *Aircraft) Receive(msg telemetry.Message) {
	u, ok := msg.(*update)
	if !ok {
		return
	}

	heard := u.heardAt()
	a.mu.Lock()
	if heard.After(a.lastHeard) {
		a.lastHeard = heard
	}
	a.mu.Unlock()

	track := a.track.Get()
	u.applyTrack(&track, heard)
	a.track.Set(track)
	a.flightInfo.Set(u.flightInfo())
}

// IsInteresting implements telemetry.Object: an aircraft is surfaced once it
// has a position, a callsign, or a registration.
func (a *Aircraft) IsInteresting() bool {
	t := a.track.Get()
	fi := a.flightInfo.Get()
	return t.Latitude.Valid || t.Longitude.Valid ||
		fi.Callsign != nil || fi.Registration != ""
}

// ExpiresAt implements telemetry.Object.
func (a *Aircraft) ExpiresAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastHeard.Add(dropUnheardTimeout)
}

// Capabilities implements telemetry.Object.
func (a *Aircraft) Capabilities() []string {
	return []string{IAircraft}
}
