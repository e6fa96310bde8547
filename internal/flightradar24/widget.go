package flightradar24

import (
	_ "embed"
	"fmt"
	"math"
	"strings"

	"github.com/s-martin/shinysdr/internal/cells"
	"github.com/s-martin/shinysdr/internal/console"
	"github.com/s-martin/shinysdr/internal/maplayer"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

// LayerName is the overlay layer the plugin registers.
const LayerName = "flightradar24"

// IconURL is where the console serves the aircraft icon.
const IconURL = "/client/plugins/flightradar24/aircraft.svg"

// IconSVG is the aircraft icon asset, served at IconURL.
//
//go:embed aircraft.svg
var IconSVG []byte

// FlightInfoWidget renders one aircraft's flight info as three text rows:
// callsign/flight/route, model/registration, and squawk code.
type FlightInfoWidget struct {
	rows   [3]*console.Node
	source *cells.Cell[FlightInfo]
}

// NewFlightInfoWidget creates one child element with three empty text rows
// inside container and binds them to the flight info source.
func NewFlightInfoWidget(container *console.Node, source *cells.Cell[FlightInfo]) *FlightInfoWidget {
	block := container.AppendChild()
	w := &FlightInfoWidget{source: source}
	for i := range w.rows {
		w.rows[i] = block.AppendChild()
	}
	return w
}

// Update rewrites the three rows from the current flight info. Absent
// fields degrade to empty text, except origin/destination which render as
// "???" when the other end of the route is known.
func (w *FlightInfoWidget) Update(d *cells.Dirty) {
	fi := w.source.Depend(d)

	route := fmt.Sprintf("%s / %s", stringOrEmpty(fi.Callsign), stringOrEmpty(fi.Flight))
	if fi.Origin != nil || fi.Destination != nil {
		route += fmt.Sprintf(" (%s / %s)", orPlaceholder(fi.Origin), orPlaceholder(fi.Destination))
	}
	w.rows[0].SetText(route)
	w.rows[1].SetText(fmt.Sprintf("%s %s", fi.Model, fi.Registration))
	w.rows[2].SetText("Squawk " + stringOrEmpty(fi.SquawkCode))
}

func orPlaceholder(p *string) string {
	if p == nil {
		return "???"
	}
	return *p
}

// AircraftWidget is the composite panel for one aircraft: the generic track
// widget over its track cell plus a FlightInfoWidget over its flight info
// cell. The two children are fixed for the widget's lifetime.
type AircraftWidget struct {
	track      *console.TrackWidget
	flightInfo *FlightInfoWidget
}

// NewAircraftWidget implements console.Constructor for the IAircraft
// capability.
func NewAircraftWidget(container *console.Node, entity telemetry.Object) console.Widget {
	aircraft, ok := entity.(*Aircraft)
	if !ok {
		return nopWidget{}
	}
	block := container.AppendChild()
	return &AircraftWidget{
		track:      console.NewTrackWidget(block, aircraft.TrackCell()),
		flightInfo: NewFlightInfoWidget(block, aircraft.FlightInfoCell()),
	}
}

// Update refreshes both children.
func (w *AircraftWidget) Update(d *cells.Dirty) {
	w.track.Update(d)
	w.flightInfo.Update(d)
}

type nopWidget struct{}

func (nopWidget) Update(*cells.Dirty) {}

// AddAircraftMapLayer registers the "flightradar24" overlay layer: one
// feature per aircraft in the index, rendered by renderAircraftFeature.
// Invoked once by the map engine at plugin bootstrap.
func AddAircraftMapLayer(cfg maplayer.PluginConfig) {
	cfg.AddLayer(LayerName, maplayer.LayerSpec{
		Features: cfg.IndexImplementing(IAircraft),
		Renderer: renderAircraftFeature,
	})
}

// renderAircraftFeature projects one aircraft to a map feature. The label
// is the trimmed callsign, the squawk code, and the altitude rounded to
// whole meters, whichever are known, joined with " • ". Geometry comes from
// the track; the icon is fixed.
func renderAircraftFeature(entity telemetry.Object, d *cells.Dirty) maplayer.Feature {
	aircraft, ok := entity.(*Aircraft)
	if !ok {
		return maplayer.Feature{}
	}

	track := aircraft.TrackCell().Depend(d)
	fi := aircraft.FlightInfoCell().Depend(d)

	var parts []string
	if fi.Callsign != nil {
		parts = append(parts, strings.TrimSpace(*fi.Callsign))
	}
	if fi.SquawkCode != nil {
		parts = append(parts, *fi.SquawkCode)
	}
	if track.Altitude.Valid {
		parts = append(parts, fmt.Sprintf("%d m", int64(math.Round(track.Altitude.Value))))
	}

	f := maplayer.RenderTrackFeature(d, aircraft.TrackCell(), strings.Join(parts, " • "))
	f.IconURL = IconURL
	return f
}
