package booking

import (
	"sync"
	"testing"
)

func TestLockPlaceSerializesSamePlace(t *testing.T) {
	const workers = 20

	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := lockPlace("pool")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("counter = %d, want %d", counter, workers)
	}
}

func TestLockPlaceIndependentPlaces(t *testing.T) {
	unlockA := lockPlace("gym")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := lockPlace("sauna")
		unlockB()
		close(done)
	}()

	// Holding gym must not block sauna.
	<-done
}

func TestLockPlaceReusesMutex(t *testing.T) {
	unlock := lockPlace("rooftop")
	first := placeLocks["rooftop"]
	unlock()

	unlock = lockPlace("rooftop")
	second := placeLocks["rooftop"]
	unlock()

	if first != second {
		t.Fatal("expected the same mutex for repeated locks of one place")
	}
}
