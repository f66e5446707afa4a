package app

import (
	"context"
	"log"
	"time"
)

// Flusher saves the store when it changed.
type Flusher interface {
	Flush(ctx context.Context) (bool, error)
}

// StartAutosave launches a background goroutine that flushes at a fixed
// cadence until ctx is cancelled. The returned channel is closed once the
// goroutine has exited. A non-positive interval disables autosave.
func StartAutosave(ctx context.Context, f Flusher, interval time.Duration, logger *log.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if _, err := f.Flush(ctx); err != nil && ctx.Err() == nil {
				logger.Printf("autosave failed: %v", err)
			}
		}
	}()
	return done
}
