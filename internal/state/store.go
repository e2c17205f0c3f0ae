package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/zhaohua/mpconsole/internal/jsontable"
	"github.com/zhaohua/mpconsole/internal/sizes"
)

// Snapshot represents the latest backend data available to the UI.
type Snapshot struct {
	Watches             []sizes.WatchDirectoryConfiguration
	HasWatches          bool
	Largest             []*jsontable.Object
	HasLargest          bool // a poll succeeded; Largest may still be empty
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot and notifies
// subscribers after every change.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(watches []sizes.WatchDirectoryConfiguration, largest []*jsontable.Object, err error) {
	s.mu.Lock()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.Watches = cloneWatches(watches)
		s.snapshot.HasWatches = true
		s.snapshot.Largest = cloneObjects(largest)
		s.snapshot.HasLargest = true
		s.snapshot.LastError = nil
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures = 0
	}
	s.mu.Unlock()

	s.notify()
}

// SetWatches replaces only the watch list, as returned by add and remove
// calls, without touching the poll bookkeeping.
func (s *Store) SetWatches(watches []sizes.WatchDirectoryConfiguration) {
	s.mu.Lock()
	s.snapshot.Watches = cloneWatches(watches)
	s.snapshot.HasWatches = true
	s.mu.Unlock()

	s.notify()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *Store) copyLocked() Snapshot {
	snap := s.snapshot
	snap.Watches = cloneWatches(s.snapshot.Watches)
	snap.Largest = cloneObjects(s.snapshot.Largest)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Subscribe registers fn to receive a fresh snapshot after every change.
// fn runs on the updating goroutine and must not block. The returned
// function removes the subscription; calling it twice is harmless.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func(Snapshot))
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(s.Snapshot())
	}
}

func cloneWatches(items []sizes.WatchDirectoryConfiguration) []sizes.WatchDirectoryConfiguration {
	if len(items) == 0 {
		return nil
	}
	dup := make([]sizes.WatchDirectoryConfiguration, len(items))
	copy(dup, items)
	return dup
}

// Objects are immutable, copying the slice is enough.
func cloneObjects(items []*jsontable.Object) []*jsontable.Object {
	if len(items) == 0 {
		return nil
	}
	dup := make([]*jsontable.Object, len(items))
	copy(dup, items)
	return dup
}
