package engine

import "sync"

// InstrumentSerializer hands out one exclusive section per instrument so
// matching cycles for the same instrument never overlap, while cycles for
// different instruments proceed fully in parallel.
type InstrumentSerializer struct {
	mu    sync.RWMutex
	locks map[string]*sync.Mutex
}

// NewInstrumentSerializer creates an empty InstrumentSerializer.
func NewInstrumentSerializer() *InstrumentSerializer {
	return &InstrumentSerializer{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the instrument's exclusive section, blocking while
// another cycle for the same instrument holds it. It returns the release
// function; callers must defer it so the section is released on every
// exit path, including error paths.
func (s *InstrumentSerializer) Lock(instrument string) (unlock func()) {
	l := s.lockFor(instrument)
	l.Lock()
	return l.Unlock
}

// lockFor returns the mutex for the instrument, creating it on first use.
func (s *InstrumentSerializer) lockFor(instrument string) *sync.Mutex {
	s.mu.RLock()
	l, ok := s.locks[instrument]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Double-check after acquiring write lock.
	if l, ok = s.locks[instrument]; ok {
		return l
	}
	l = &sync.Mutex{}
	s.locks[instrument] = l
	return l
}
