// Package sweeper periodically prunes expired entries from the client index.
//
// Redis expires the client hashes on its own; the created_at index is a
// sorted set with no TTL, so it is trimmed here on a schedule.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/mohit83k/bngclients/internal/logger"
)

// Sweeper is the store capability the scheduler drives.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Run sweeps once immediately and then every interval until ctx is done.
func Run(ctx context.Context, s Sweeper, interval time.Duration, log logger.Logger) {
	log.WithFields(map[string]any{"interval": interval.String()}).Info("Started index sweeper")

	runOnce(ctx, s, log)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopped index sweeper")
			return
		case <-ticker.C:
			runOnce(ctx, s, log)
		}
	}
}

func runOnce(ctx context.Context, s Sweeper, log logger.Logger) {
	n, err := s.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Error(fmt.Errorf("index sweep failed: %w", err))
		}
		return
	}
	if n > 0 {
		log.WithFields(map[string]any{"removed": n}).Info("Swept expired client index entries")
	}
}
