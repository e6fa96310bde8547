package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/s-martin/shinysdr/internal/telemetry"
)

// ExpirySweep drops telemetry objects that have not been heard from past
// their expiry. Runs as a scheduler task.
type ExpirySweep struct {
	index    *telemetry.Index
	interval time.Duration
}

func NewExpirySweep(index *telemetry.Index, interval time.Duration) *ExpirySweep {
	return &ExpirySweep{index: index, interval: interval}
}

// Name implements scheduler.Task.
func (t *ExpirySweep) Name() string { return "telemetry-expiry-sweep" }

// Interval implements scheduler.Task.
func (t *ExpirySweep) Interval() time.Duration { return t.interval }

// Run implements scheduler.Task.
func (t *ExpirySweep) Run(ctx context.Context) error {
	if dropped := t.index.Sweep(time.Now()); dropped > 0 {
		slog.Info("Dropped expired telemetry objects", "dropped", dropped, "remaining", t.index.Len())
	}
	return nil
}
