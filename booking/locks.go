package booking

import "sync"

// Admissibility checks and the write that follows are not a single atomic
// operation against the store, so two concurrent requests could both pass the
// check for a place's last slot. A per-place mutex spanning the
// check-then-write sequence serializes them within this process.
var (
	placeLocks   = make(map[string]*sync.Mutex)
	placeLocksMu sync.Mutex
)

// lockPlace acquires the mutex for a place and returns its unlock func.
func lockPlace(placeID string) func() {
	placeLocksMu.Lock()
	mu, ok := placeLocks[placeID]
	if !ok {
		mu = &sync.Mutex{}
		placeLocks[placeID] = mu
	}
	placeLocksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
