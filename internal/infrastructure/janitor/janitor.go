// Package janitor runs the periodic sweep that deletes lapsed sessions.
// Mongo's TTL monitor does the same work roughly once a minute; the sweep
// keeps storage bounded when the monitor lags or the index is missing.
package janitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldsales/sales-api/internal/api/metrics"
)

const defaultInterval = 15 * time.Minute

// Purger deletes expired sessions and reports how many were removed.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Janitor sweeps expired sessions on a fixed interval.
type Janitor struct {
	purger   Purger
	interval time.Duration
	log      zerolog.Logger
}

// New returns a Janitor. If interval <= 0, defaultInterval is used.
func New(purger Purger, interval time.Duration, log zerolog.Logger) *Janitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Janitor{purger: purger, interval: interval, log: log}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	go j.run(ctx)
}

func (j *Janitor) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs a single purge and returns the number of sessions removed.
func (j *Janitor) Sweep(ctx context.Context) int64 {
	n, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("expired session sweep failed")
		return 0
	}
	if n > 0 {
		metrics.SessionsPurgedTotal.Add(float64(n))
		j.log.Info().Int64("count", n).Msg("expired sessions purged")
	}
	return n
}
