package console

import (
	"sync"

	"github.com/s-martin/shinysdr/internal/cells"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

// Widget is a view over some reactive state. Update performs one full
// refresh: it re-reads the widget's source cells through d and rewrites the
// widget's subtree. The host calls Update again whenever d fires.
type Widget interface {
	Update(d *cells.Dirty)
}

// Constructor builds a widget for one tracked object inside container.
type Constructor func(container *Node, entity telemetry.Object) Widget

// Registry maps capability names to widget constructors. Plugins register
// their widgets here during bootstrap; the console looks constructors up by
// the capabilities an object advertises.
type Registry struct {
	mu    sync.Mutex
	ctors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// RegisterWidget binds ctor to a capability name. A later registration for
// the same capability replaces the earlier one.
func (r *Registry) RegisterWidget(capability string, ctor Constructor) {
	r.mu.Lock()
	r.ctors[capability] = ctor
	r.mu.Unlock()
}

// Lookup returns the constructor registered for a capability.
func (r *Registry) Lookup(capability string) (Constructor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctor, ok := r.ctors[capability]
	return ctor, ok
}
