package server

import (
	"context"

	"github.com/s-martin/shinysdr/internal/cells"
	"github.com/s-martin/shinysdr/internal/console"
	"github.com/s-martin/shinysdr/internal/maplayer"
)

// Update is one console snapshot: every map layer's rendered features plus
// the widget panel tree.
type Update struct {
	Layers []maplayer.LayerSnapshot `json:"layers"`
	Panels console.Snapshot         `json:"panels"`
}

// Refresher drives the render loop. Each pass renders all layers and
// updates the panel through one fresh dirty token; when any cell read
// during the pass changes, the token wakes the loop for the next pass.
// Wake-ups arriving mid-pass coalesce into a single follow-up pass.
type Refresher struct {
	engine *maplayer.Engine
	panel  *console.Panel
	hub    *Hub
	wake   chan struct{}
}

// NewRefresher creates a refresher pushing snapshots to hub.
func NewRefresher(engine *maplayer.Engine, panel *console.Panel, hub *Hub) *Refresher {
	return &Refresher{
		engine: engine,
		panel:  panel,
		hub:    hub,
		wake:   make(chan struct{}, 1),
	}
}

// Run renders once immediately, then once per wake-up, until ctx ends.
func (r *Refresher) Run(ctx context.Context) {
	r.renderPass()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.wake:
			r.renderPass()
		}
	}
}

func (r *Refresher) renderPass() {
	d := cells.NewDirty(r.notify)
	layers := r.engine.RenderAll(d)
	r.panel.Update(d)
	r.hub.Broadcast(Update{Layers: layers, Panels: r.panel.Snapshot()})
}

func (r *Refresher) notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}
