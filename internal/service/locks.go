package service

import (
	"sync"

	"github.com/google/uuid"
)

// tripLocks hands out one mutex per trip id so that every mutation on a
// given trip runs single-writer while different trips proceed in parallel.
//
// The ledger and the allocator each hold their own tripLocks instance: the
// two subsystems share no state, so a booking update on a trip does not
// block a room-plan save on the same trip.
//
// Locks are never removed from the map. The map grows by one mutex per trip
// ever mutated, which for an office-scale trip count is negligible.
type tripLocks struct {
	locks sync.Map // uuid.UUID → *sync.Mutex
}

// Lock acquires the mutex for the given trip and returns its unlock func:
//
//	defer l.Lock(tripID)()
func (l *tripLocks) Lock(tripID uuid.UUID) func() {
	v, _ := l.locks.LoadOrStore(tripID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
