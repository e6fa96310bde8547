package console

import (
	"fmt"

	"github.com/s-martin/shinysdr/internal/cells"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

// TrackWidget is the generic kinematic-state display: four text rows for
// position, altitude, speed and heading, each omitting values never heard.
type TrackWidget struct {
	rows   [4]*Node
	source *cells.Cell[telemetry.Track]
}

// NewTrackWidget creates the widget's rows inside container and binds them
// to the track source.
func NewTrackWidget(container *Node, source *cells.Cell[telemetry.Track]) *TrackWidget {
	block := container.AppendChild()
	w := &TrackWidget{source: source}
	for i := range w.rows {
		w.rows[i] = block.AppendChild()
	}
	return w
}

// Update rewrites the rows from the current track value.
func (w *TrackWidget) Update(d *cells.Dirty) {
	t := w.source.Depend(d)

	if t.Latitude.Valid && t.Longitude.Valid {
		w.rows[0].SetText(fmt.Sprintf("Position: %.5f, %.5f", t.Latitude.Value, t.Longitude.Value))
	} else {
		w.rows[0].SetText("Position: unknown")
	}
	w.rows[1].SetText(itemRow("Altitude", t.Altitude, "%.0f m"))
	w.rows[2].SetText(itemRow("Speed", t.HSpeed, "%.1f m/s"))
	w.rows[3].SetText(itemRow("Heading", t.Heading, "%.0f°"))
}

func itemRow(name string, item telemetry.Item, format string) string {
	if !item.Valid {
		return name + ": —"
	}
	return name + ": " + fmt.Sprintf(format, item.Value)
}
