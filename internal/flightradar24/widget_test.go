package flightradar24

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s-martin/shinysdr/internal/cells"
	"github.com/s-martin/shinysdr/internal/console"
	"github.com/s-martin/shinysdr/internal/maplayer"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

func strPtr(s string) *string { return &s }

func updatedFlightInfoWidget(t *testing.T, fi FlightInfo) *FlightInfoWidget {
	t.Helper()
	container := console.NewNode()
	source := cells.NewCell(fi)
	w := NewFlightInfoWidget(container, source)
	w.Update(cells.NewDirty(nil))
	return w
}

func TestFlightInfoWidget_CreatesThreeEmptyRows(t *testing.T) {
	container := console.NewNode()
	source := cells.NewCell(FlightInfo{})

	NewFlightInfoWidget(container, source)

	snap := container.Snapshot()
	require.Len(t, snap.Children, 1)
	require.Len(t, snap.Children[0].Children, 3)
	for _, row := range snap.Children[0].Children {
		assert.Equal(t, "", row.Text)
	}
}

func TestFlightInfoWidget_RouteRowWithoutAirports(t *testing.T) {
	w := updatedFlightInfoWidget(t, FlightInfo{
		Callsign: strPtr("KLM641"),
		Flight:   strPtr("KL0641"),
	})

	// No origin or destination: no parenthetical.
	assert.Equal(t, "KLM641 / KL0641", w.rows[0].Text())
}

func TestFlightInfoWidget_RouteRowWithPartialRoute(t *testing.T) {
	w := updatedFlightInfoWidget(t, FlightInfo{
		Callsign: strPtr("KLM641"),
		Flight:   strPtr("KL0641"),
		Origin:   strPtr("JFK"),
	})

	assert.Contains(t, w.rows[0].Text(), "(JFK / ???)")
	assert.Equal(t, "KLM641 / KL0641 (JFK / ???)", w.rows[0].Text())
}

func TestFlightInfoWidget_RouteRowWithFullRoute(t *testing.T) {
	w := updatedFlightInfoWidget(t, FlightInfo{
		Callsign:    strPtr("KLM641"),
		Flight:      strPtr("KL0641"),
		Origin:      strPtr("AMS"),
		Destination: strPtr("JFK"),
	})

	assert.Equal(t, "KLM641 / KL0641 (AMS / JFK)", w.rows[0].Text())
}

func TestFlightInfoWidget_ModelRegistrationRow(t *testing.T) {
	w := updatedFlightInfoWidget(t, FlightInfo{
		Model:        "B738",
		Registration: "PH-BXA",
	})

	assert.Equal(t, "B738 PH-BXA", w.rows[1].Text())
}

func TestFlightInfoWidget_SquawkRow(t *testing.T) {
	w := updatedFlightInfoWidget(t, FlightInfo{
		SquawkCode: strPtr("7700"),
	})

	assert.Equal(t, "Squawk 7700", w.rows[2].Text())
}

func TestFlightInfoWidget_AllFieldsAbsent(t *testing.T) {
	w := updatedFlightInfoWidget(t, FlightInfo{})

	assert.Equal(t, " / ", w.rows[0].Text())
	assert.Equal(t, " ", w.rows[1].Text())
	assert.Equal(t, "Squawk ", w.rows[2].Text())
}

func TestFlightInfoWidget_ReRenderOnChange(t *testing.T) {
	container := console.NewNode()
	source := cells.NewCell(FlightInfo{Callsign: strPtr("OLD123")})
	w := NewFlightInfoWidget(container, source)

	notified := 0
	d := cells.NewDirty(func() { notified++ })
	w.Update(d)
	assert.Equal(t, "OLD123 / ", w.rows[0].Text())

	source.Set(FlightInfo{Callsign: strPtr("NEW456")})
	assert.Equal(t, 1, notified)

	w.Update(cells.NewDirty(nil))
	assert.Equal(t, "NEW456 / ", w.rows[0].Text())
}

func testAircraft(fi FlightInfo, track telemetry.Track) *Aircraft {
	a := newAircraft("test")
	a.FlightInfoCell().Set(fi)
	a.TrackCell().Set(track)
	return a
}

func TestRenderAircraftFeature_FullLabel(t *testing.T) {
	now := time.Now()
	a := testAircraft(
		FlightInfo{Callsign: strPtr(" BOX451 "), SquawkCode: strPtr("1714")},
		telemetry.Track{Altitude: telemetry.MakeItem(1234.6, now)},
	)

	f := renderAircraftFeature(a, cells.NewDirty(nil))
	assert.Equal(t, "BOX451 • 1714 • 1235 m", f.Label)
	assert.Equal(t, IconURL, f.IconURL)
}

func TestRenderAircraftFeature_EmptyLabel(t *testing.T) {
	a := testAircraft(FlightInfo{}, telemetry.Track{})

	f := renderAircraftFeature(a, cells.NewDirty(nil))
	assert.Equal(t, "", f.Label)
}

func TestRenderAircraftFeature_AltitudeOnly(t *testing.T) {
	a := testAircraft(
		FlightInfo{},
		telemetry.Track{Altitude: telemetry.MakeItem(500.0, time.Now())},
	)

	f := renderAircraftFeature(a, cells.NewDirty(nil))
	assert.Equal(t, "500 m", f.Label)
}

func TestRenderAircraftFeature_Geometry(t *testing.T) {
	now := time.Now()
	a := testAircraft(
		FlightInfo{Callsign: strPtr("BAW117")},
		telemetry.Track{
			Latitude:  telemetry.MakeItem(51.4775, now),
			Longitude: telemetry.MakeItem(-0.4614, now),
			Heading:   telemetry.MakeItem(270, now),
		},
	)

	f := renderAircraftFeature(a, cells.NewDirty(nil))
	require.NotNil(t, f.Position)
	assert.Equal(t, 51.4775, f.Position.Lat)
	assert.Equal(t, -0.4614, f.Position.Lon)
	require.NotNil(t, f.Heading)
	assert.Equal(t, 270.0, *f.Heading)
}

func TestRenderAircraftFeature_Idempotent(t *testing.T) {
	now := time.Now()
	a := testAircraft(
		FlightInfo{Callsign: strPtr("BOX451"), SquawkCode: strPtr("1714")},
		telemetry.Track{
			Latitude:  telemetry.MakeItem(52.5, now),
			Longitude: telemetry.MakeItem(13.4, now),
			Altitude:  telemetry.MakeItem(1234.6, now),
		},
	)

	first := renderAircraftFeature(a, cells.NewDirty(nil))
	second := renderAircraftFeature(a, cells.NewDirty(nil))
	assert.Equal(t, first, second)
}

func TestRenderAircraftFeature_DependsOnBothCells(t *testing.T) {
	a := testAircraft(FlightInfo{Callsign: strPtr("BOX451")}, telemetry.Track{})

	d := cells.NewDirty(nil)
	renderAircraftFeature(a, d)

	a.FlightInfoCell().Set(FlightInfo{Callsign: strPtr("BOX452")})
	assert.True(t, d.IsDirty())

	d2 := cells.NewDirty(nil)
	renderAircraftFeature(a, d2)
	a.TrackCell().Set(telemetry.Track{Altitude: telemetry.MakeItem(100, time.Now())})
	assert.True(t, d2.IsDirty())
}

func TestAddAircraftMapLayer(t *testing.T) {
	index := telemetry.NewIndex()
	engine := maplayer.NewEngine(index)

	AddAircraftMapLayer(engine)

	layers := engine.RenderAll(cells.NewDirty(nil))
	require.Len(t, layers, 1)
	assert.Equal(t, LayerName, layers[0].Name)
	assert.Empty(t, layers[0].Features)
}

func TestAircraftWidget_Composite(t *testing.T) {
	now := time.Now()
	a := testAircraft(
		FlightInfo{Callsign: strPtr("KLM641"), Model: "B738", Registration: "PH-BXA"},
		telemetry.Track{
			Latitude:  telemetry.MakeItem(52.30861, now),
			Longitude: telemetry.MakeItem(4.76389, now),
		},
	)

	container := console.NewNode()
	w := NewAircraftWidget(container, a)
	w.Update(cells.NewDirty(nil))

	snap := container.Snapshot()
	require.Len(t, snap.Children, 1)
	// Two fixed children: the track block and the flight info block.
	require.Len(t, snap.Children[0].Children, 2)

	trackRows := snap.Children[0].Children[0].Children
	require.Len(t, trackRows, 4)
	assert.Equal(t, "Position: 52.30861, 4.76389", trackRows[0].Text)

	infoRows := snap.Children[0].Children[1].Children
	require.Len(t, infoRows, 3)
	assert.Equal(t, "KLM641 / ", infoRows[0].Text)
	assert.Equal(t, "B738 PH-BXA", infoRows[1].Text)
}
