package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/songrater/internal/resource"
)

// Snapshot represents the latest data available for one collection.
type Snapshot struct {
	Items               []resource.Entity
	Loaded              bool // at least one load has succeeded
	Seq                 uint64
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive load failures
}

// IsOffline returns true when the API has been unreachable for multiple loads.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to per-collection snapshots. The zero
// value is ready to use.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	issued   uint64
	snapshot Snapshot
}

// Begin reserves the next load sequence number for a collection. Results are
// applied in sequence order; see Update.
func (s *Store) Begin(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(name)
	c.issued++
	return c.issued
}

// Update records the outcome of the load identified by seq. A result older
// than the one already applied is dropped and Update returns false. When err
// is non-nil the previous items are kept but the error is recorded for
// visibility.
func (s *Store) Update(name string, seq uint64, items []resource.Entity, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(name)
	if seq <= c.snapshot.Seq {
		return false
	}
	if seq > c.issued {
		c.issued = seq
	}
	c.snapshot.Seq = seq
	c.snapshot.LastUpdated = time.Now()

	if err != nil {
		c.snapshot.LastError = err
		c.snapshot.ConsecutiveFailures++
		return true
	}

	c.snapshot.Items = cloneItems(items)
	c.snapshot.Loaded = true
	c.snapshot.LastError = nil
	c.snapshot.ConsecutiveFailures = 0
	return true
}

// Snapshot returns a copy of the current snapshot for a collection.
func (s *Store) Snapshot(name string) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return Snapshot{}
	}
	snap := c.snapshot
	snap.Items = cloneItems(c.snapshot.Items)
	if c.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", c.snapshot.LastError)
	}
	return snap
}

// Offline reports whether any tracked collection is offline.
func (s *Store) Offline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.collections {
		if c.snapshot.IsOffline() {
			return true
		}
	}
	return false
}

// collection must be called with mu held for writing.
func (s *Store) collection(name string) *collection {
	if s.collections == nil {
		s.collections = make(map[string]*collection)
	}
	c, ok := s.collections[name]
	if !ok {
		c = &collection{}
		s.collections[name] = c
	}
	return c
}

func cloneItems(items []resource.Entity) []resource.Entity {
	if len(items) == 0 {
		return nil
	}
	dup := make([]resource.Entity, len(items))
	copy(dup, items)
	return dup
}
