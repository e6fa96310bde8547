// Package maplayer is the console's map-overlay engine. Plugins register a
// layer factory; the engine calls each factory once at bootstrap with a
// narrow config interface, then renders every layer's features on demand,
// threading one dirty token through all cell reads so any change triggers
// the next render pass.
package maplayer

import (
	"sort"
	"sync"

	"github.com/s-martin/shinysdr/internal/cells"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

// LatLon is a WGS84 position.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Feature is one renderable overlay object: a label, an optional icon, and
// whatever geometry the renderer derived from the object's track. Features
// carry no identity; each render pass produces a fresh set.
type Feature struct {
	Label    string   `json:"label"`
	IconURL  string   `json:"iconUrl,omitempty"`
	Position *LatLon  `json:"position,omitempty"`
	Heading  *float64 `json:"heading,omitempty"`
	HSpeed   *float64 `json:"hSpeed,omitempty"`
	VSpeed   *float64 `json:"vSpeed,omitempty"`
}

// FeatureRenderer projects one tracked object to one feature. It must be
// pure: same inputs, identical feature. Cell reads go through d so the
// engine learns when a re-render is due.
type FeatureRenderer func(entity telemetry.Object, d *cells.Dirty) Feature

// LayerSpec describes one overlay layer: the live set of objects to render
// and the renderer applied to each.
type LayerSpec struct {
	Features *cells.Cell[[]telemetry.Object]
	Renderer FeatureRenderer
}

// PluginConfig is the surface a layer factory gets to register against.
type PluginConfig interface {
	// AddLayer registers one named overlay layer.
	AddLayer(name string, spec LayerSpec)
	// IndexImplementing returns the cell of objects advertising a capability.
	IndexImplementing(capability string) *cells.Cell[[]telemetry.Object]
}

// Factory is a plugin's layer-registration hook, invoked once at bootstrap.
type Factory func(cfg PluginConfig)

// Registry collects layer factories during plugin registration.
type Registry struct {
	mu        sync.Mutex
	factories []Factory
}

// NewRegistry creates an empty factory registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register queues a factory for the next Init.
func (r *Registry) Register(f Factory) {
	r.mu.Lock()
	r.factories = append(r.factories, f)
	r.mu.Unlock()
}

// Init invokes every registered factory once against cfg.
func (r *Registry) Init(cfg PluginConfig) {
	r.mu.Lock()
	factories := make([]Factory, len(r.factories))
	copy(factories, r.factories)
	r.mu.Unlock()

	for _, f := range factories {
		f(cfg)
	}
}

// RenderTrackFeature builds the geometric part of a feature from a track
// cell: position, heading and speeds, each omitted when never heard. The
// label is carried through verbatim.
func RenderTrackFeature(d *cells.Dirty, track *cells.Cell[telemetry.Track], label string) Feature {
	t := track.Depend(d)
	f := Feature{Label: label}
	if t.Latitude.Valid && t.Longitude.Valid {
		f.Position = &LatLon{Lat: t.Latitude.Value, Lon: t.Longitude.Value}
	}
	if t.Heading.Valid {
		v := t.Heading.Value
		f.Heading = &v
	}
	if t.HSpeed.Valid {
		v := t.HSpeed.Value
		f.HSpeed = &v
	}
	if t.VSpeed.Valid {
		v := t.VSpeed.Value
		f.VSpeed = &v
	}
	return f
}

// LayerSnapshot is one layer's rendered feature list.
type LayerSnapshot struct {
	Name     string    `json:"name"`
	Features []Feature `json:"features"`
}

// Engine owns the registered layers and renders them against the telemetry
// index. It implements PluginConfig.
type Engine struct {
	index  *telemetry.Index
	mu     sync.Mutex
	layers map[string]LayerSpec
}

// NewEngine creates an engine over index.
func NewEngine(index *telemetry.Index) *Engine {
	return &Engine{index: index, layers: make(map[string]LayerSpec)}
}

// AddLayer implements PluginConfig. A duplicate name replaces the earlier
// layer.
func (e *Engine) AddLayer(name string, spec LayerSpec) {
	e.mu.Lock()
	e.layers[name] = spec
	e.mu.Unlock()
}

// IndexImplementing implements PluginConfig.
func (e *Engine) IndexImplementing(capability string) *cells.Cell[[]telemetry.Object] {
	return e.index.Implementing(capability)
}

// RenderAll renders every layer, ordered by name, reading all cells through
// d so the caller is woken for the next pass when anything changes.
func (e *Engine) RenderAll(d *cells.Dirty) []LayerSnapshot {
	e.mu.Lock()
	names := make([]string, 0, len(e.layers))
	for name := range e.layers {
		names = append(names, name)
	}
	specs := make(map[string]LayerSpec, len(e.layers))
	for name, spec := range e.layers {
		specs[name] = spec
	}
	e.mu.Unlock()
	sort.Strings(names)

	out := make([]LayerSnapshot, 0, len(names))
	for _, name := range names {
		spec := specs[name]
		entities := spec.Features.Depend(d)
		features := make([]Feature, 0, len(entities))
		for _, entity := range entities {
			features = append(features, spec.Renderer(entity, d))
		}
		out = append(out, LayerSnapshot{Name: name, Features: features})
	}
	return out
}
