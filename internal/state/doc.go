// Package state provides thread-safe storage for the collections songrater
// has fetched.
//
// # Overview
//
// Each list view, and the optional background poller, reads a whole
// collection from the API and hands the result to the Store. The Store keeps
// one Snapshot per collection name ("users", "artists") and is the only
// structure shared between goroutines.
//
//	Producers (load commands, poller):   Consumer (UI):
//	┌──────────────────────┐            ┌──────────────────────┐
//	│ seq := store.Begin() │            │                      │
//	│ client.List()        │            │                      │
//	│ store.Update(seq,..) │───────────→│ store.Snapshot(name) │
//	└──────────────────────┘  (mutex)   └──────────────────────┘
//
// # Ordering
//
// Loads are not serialized: a slow response can finish after a newer one.
// Begin hands out increasing sequence numbers, and Update drops any result
// whose sequence is not newer than the one already applied, so a stale
// response never overwrites fresher data.
//
// # Update Semantics
//
//	// Success: replace the collection wholesale
//	store.Update("users", seq, items, nil)
//	→ snapshot.Items = items
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Error: keep old items, record the error
//	store.Update("users", seq, nil, err)
//	→ snapshot.Items = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// After two consecutive failures a snapshot reports IsOffline, which the
// header shows as an offline badge.
//
// # Copying
//
// Update and Snapshot copy the item slice and Snapshot wraps the stored error,
// so callers never share slice backing arrays with the Store. Entities
// themselves are copy-on-write and need no deep copy.
//
// # Testing Considerations
//
// The zero Store is ready to use, and Snapshot on an unknown collection
// returns the zero Snapshot.
package state
