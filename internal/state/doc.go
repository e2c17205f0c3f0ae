// Package state provides thread-safe state management for mpconsole.
//
// # Overview
//
// The Store shares backend data (watch directories and the largest
// directories list) between the background poller and the UI. Writers replace
// the snapshot; readers either pull a copy with Snapshot or subscribe and get
// pushed one after every change.
//
// # Architecture
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────────┐
//	│ ListWatches()  │            │                     │
//	│ FetchLargest() │            │                     │
//	│      ↓         │  notify    │                     │
//	│ store.Update() │───────────→│ Subscribe callback  │
//	│      ↓         │  (mutex)   │   → tea.Program.Send│
//	│  repeat...     │            │   → Update/View     │
//	└────────────────┘            └─────────────────────┘
//
// UI actions that change the watch list (add, remove) call SetWatches with
// the list the backend returned, so the table refreshes without waiting for
// the next poll.
//
// # Subscriptions
//
// Subscribe replaces observable fields with an explicit observer list.
// Callbacks run synchronously on the writer's goroutine, after the write lock
// has been released, and each receives its own copy of the snapshot. They
// must return quickly; the UI forwards the snapshot into the bubbletea
// program and returns.
//
// # Update Semantics
//
//	store.Update(watches, largest, nil)
//	→ data replaced, LastError cleared, ConsecutiveFailures = 0
//
//	store.Update(nil, nil, err)
//	→ data kept, LastError = err, ConsecutiveFailures++
//
// IsOffline reports two or more consecutive failures.
//
// # Copying
//
// Snapshot clones the slices it returns. Table objects are immutable, so
// only the slice header and backing array are copied, never the objects.
//
// The zero Store is ready to use.
package state
