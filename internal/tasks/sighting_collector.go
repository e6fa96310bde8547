package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/s-martin/shinysdr/internal/database"
	"github.com/s-martin/shinysdr/internal/models"
)

// SightingCollector drains decoded sightings off the feed channel and
// commits them to the database in batches
type SightingCollector struct {
	repo          database.SightingRepository
	sightingChan  <-chan *models.Sighting
	batchSize     int           // maximum number of sightings in a batch before committing
	flushInterval time.Duration // time to flush batch even if not full
}

// NewSightingCollector creates a collector with default batching (100
// sightings, 1 second flush)
func NewSightingCollector(repo database.SightingRepository, sightingChan <-chan *models.Sighting) *SightingCollector {
	return NewSightingCollectorWithConfig(repo, sightingChan, 100, 1*time.Second)
}

// NewSightingCollectorWithConfig creates a collector with custom batch settings
func NewSightingCollectorWithConfig(repo database.SightingRepository, sightingChan <-chan *models.Sighting, batchSize int, flushInterval time.Duration) *SightingCollector {
	return &SightingCollector{
		repo:          repo,
		sightingChan:  sightingChan,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Start begins collecting sightings and writing them to the database in
// batches. A batch is committed when full, or when the flush interval
// elapses, whichever comes first. Blocks until the context is cancelled or
// the channel is closed; a final flush runs on either exit path.
func (c *SightingCollector) Start(ctx context.Context) error {
	batch := make([]*models.Sighting, 0, c.batchSize)

	flushBatch := func() {
		if len(batch) == 0 {
			return
		}
		if err := c.repo.InsertBatch(batch); err != nil {
			slog.Error("Error inserting batch of sightings", "batch_size", len(batch), "error", err)
		} else {
			slog.Debug("Inserted batch of sightings", "batch_size", len(batch))
		}
		batch = batch[:0] // Reset slice but keep capacity
	}

	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushBatch()
			return ctx.Err()

		case <-ticker.C:
			flushBatch()

		case s, ok := <-c.sightingChan:
			if !ok {
				flushBatch()
				return nil
			}
			if s == nil {
				continue
			}

			batch = append(batch, s)

			if len(batch) >= c.batchSize {
				flushBatch()
			}
		}
	}
}
