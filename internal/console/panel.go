package console

import (
	"github.com/s-martin/shinysdr/internal/cells"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

// Panel keeps one widget alive for every object implementing a capability.
// Widgets are constructed through the registry when an object appears and
// their subtree is detached when the object leaves the index.
type Panel struct {
	root       *Node
	capability string
	ctor       Constructor
	members    *cells.Cell[[]telemetry.Object]
	widgets    map[telemetry.Object]*panelEntry
}

type panelEntry struct {
	container *Node
	widget    Widget
}

// NewPanel creates a panel bound to the objects implementing capability.
// The constructor is resolved through the registry at creation time; a
// panel for an unregistered capability renders nothing.
func NewPanel(registry *Registry, index *telemetry.Index, capability string) *Panel {
	ctor, _ := registry.Lookup(capability)
	return &Panel{
		root:       NewNode(),
		capability: capability,
		ctor:       ctor,
		members:    index.Implementing(capability),
		widgets:    make(map[telemetry.Object]*panelEntry),
	}
}

// Update reconciles the widget set against current membership and refreshes
// every surviving widget.
func (p *Panel) Update(d *cells.Dirty) {
	entities := p.members.Depend(d)
	if p.ctor == nil {
		return
	}

	current := make(map[telemetry.Object]struct{}, len(entities))
	for _, entity := range entities {
		current[entity] = struct{}{}
		if _, ok := p.widgets[entity]; !ok {
			container := p.root.AppendChild()
			p.widgets[entity] = &panelEntry{
				container: container,
				widget:    p.ctor(container, entity),
			}
		}
	}
	for entity, entry := range p.widgets {
		if _, ok := current[entity]; !ok {
			p.root.RemoveChild(entry.container)
			delete(p.widgets, entity)
		}
	}

	for _, entity := range entities {
		p.widgets[entity].widget.Update(d)
	}
}

// Snapshot copies the panel's rendered tree.
func (p *Panel) Snapshot() Snapshot {
	return p.root.Snapshot()
}
