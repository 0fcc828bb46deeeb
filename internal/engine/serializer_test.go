package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestInstrumentSerializer_MutualExclusion(t *testing.T) {
	s := NewInstrumentSerializer()

	var inSection atomic.Int32
	var overlaps atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				unlock := s.Lock("ACME")
				if inSection.Add(1) != 1 {
					overlaps.Add(1)
				}
				inSection.Add(-1)
				unlock()
			}
		}()
	}
	wg.Wait()

	if overlaps.Load() != 0 {
		t.Errorf("observed %d overlapping sections for the same instrument", overlaps.Load())
	}
}

func TestInstrumentSerializer_DifferentInstrumentsDontBlock(t *testing.T) {
	s := NewInstrumentSerializer()

	unlockA := s.Lock("ACME")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := s.Lock("GLOBEX")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("locking a different instrument blocked behind ACME's section")
	}
}

func TestInstrumentSerializer_SameMutexPerInstrument(t *testing.T) {
	s := NewInstrumentSerializer()

	if s.lockFor("ACME") != s.lockFor("ACME") {
		t.Error("expected a stable mutex per instrument")
	}
	if s.lockFor("ACME") == s.lockFor("GLOBEX") {
		t.Error("expected distinct mutexes per instrument")
	}
}
