package indexer

import (
	"context"
	"errors"
	"log"
	"time"
)

// RunBackground re-scans the corpus roots on a fixed interval until the
// context is cancelled. Each pass is incremental and idempotent; a pass
// that overlaps a still-running one is skipped, not queued, so foreground
// query latency is never affected.
func (idx *Indexer) RunBackground(ctx context.Context, codeRoots, docRoots []string, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := idx.IndexRoots(ctx, codeRoots, docRoots)
			if errors.Is(err, ErrPassInProgress) {
				continue
			}
			if err != nil {
				log.Printf("background index pass failed: %v", err)
				continue
			}
			if stats.EntriesWritten > 0 || stats.EntriesRemoved > 0 {
				log.Printf("background index pass: %d written, %d skipped, %d removed",
					stats.EntriesWritten, stats.EntriesSkipped, stats.EntriesRemoved)
			}
		}
	}
}
