package flightradar24

import (
	"github.com/s-martin/shinysdr/internal/console"
	"github.com/s-martin/shinysdr/internal/maplayer"
)

// Register wires the plugin into the console at bootstrap: the aircraft
// widget under its capability name and the map-layer factory. Called once
// before the registries are handed to the console and the map engine.
func Register(widgets *console.Registry, layers *maplayer.Registry) {
	widgets.RegisterWidget(IAircraft, NewAircraftWidget)
	layers.Register(AddAircraftMapLayer)
}
