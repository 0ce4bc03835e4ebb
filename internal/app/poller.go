package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/songrater/internal/api"
	"github.com/five82/songrater/internal/resource"
	"github.com/five82/songrater/internal/state"
)

const maxBackoff = 30 * time.Second

// calculateBackoff doubles the interval per consecutive failed round,
// capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for range failures {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// StartPoller launches a background goroutine that reloads every collection
// into the store at a fixed cadence, backing off while the API fails. It
// returns immediately; cancelling ctx stops it. A non-positive interval
// disables polling.
func StartPoller(ctx context.Context, store *state.Store, remote api.Collections, schemas []resource.Schema, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		failures := 0
		for {
			wait := calculateBackoff(failures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if err := refresh(ctx, store, remote, schemas, logger); err != nil {
				failures++
				logger.Warn("poll failed",
					slog.Int("failures", failures),
					slog.Duration("next", calculateBackoff(failures, interval)),
					slog.String("error", err.Error()))
				continue
			}
			failures = 0
		}
	}()
}

// preloadTimeout bounds the initial fetch. Collections it leaves unloaded
// are fetched by their list views on mount.
const preloadTimeout = 500 * time.Millisecond

// preload fills the store before the UI starts, giving up after
// preloadTimeout. Failures are recorded in the store and shown in the views.
func preload(ctx context.Context, store *state.Store, remote api.Collections, schemas []resource.Schema, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, preloadTimeout)
	defer cancel()
	if err := refresh(ctx, store, remote, schemas, logger); err != nil {
		logger.Warn("initial load incomplete", slog.String("error", err.Error()))
	}
}

// refresh loads every collection concurrently and records each outcome in
// the store. One collection failing does not stop the others; the first
// error is returned.
func refresh(ctx context.Context, store *state.Store, remote api.Collections, schemas []resource.Schema, logger *slog.Logger) error {
	var g errgroup.Group
	for _, s := range schemas {
		g.Go(func() error {
			seq := store.Begin(s.Name)
			items, err := remote.List(ctx, s)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			store.Update(s.Name, seq, items, err)
			if err != nil {
				return err
			}
			logger.Debug("collection refreshed",
				slog.String("resource", s.Name),
				slog.String("op", "list"),
				slog.Int("count", len(items)))
			return nil
		})
	}
	return g.Wait()
}
