package store

import (
	"sync"

	"github.com/efreitasn/minisettle/internal/domain"
)

// OrderStore keeps the resting order book for every instrument. Each
// instrument has its own book with independent locking, so different
// instruments never contend with each other.
type OrderStore struct {
	mu    sync.RWMutex
	books map[string]*book
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		books: make(map[string]*book),
	}
}

// bookFor returns the book for the given instrument, creating one if it
// doesn't already exist.
func (s *OrderStore) bookFor(instrument string) *book {
	s.mu.RLock()
	b, ok := s.books[instrument]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Double-check after acquiring write lock.
	if b, ok = s.books[instrument]; ok {
		return b
	}
	b = newBook(instrument)
	s.books[instrument] = b
	return b
}

// Insert rests an order on its instrument's book and assigns its arrival
// sequence. Sequences are strictly increasing per instrument.
func (s *OrderStore) Insert(o *domain.Order) error {
	b := s.bookFor(o.Instrument)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insert(o)
	return nil
}

// Get retrieves a resting order by instrument and ID. It returns
// domain.ErrOrderNotFound once an order has been fully filled and deleted.
// The result is a detached copy: the resting order's volume keeps moving
// under the book lock, and callers read the copy without it.
func (s *OrderStore) Get(instrument, orderID string) (*domain.Order, error) {
	b := s.bookFor(instrument)
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.index[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o := *entry.Order
	return &o, nil
}

// BestBuy returns the highest-priority buy for the instrument: maximum
// price, ties broken by smallest sequence.
func (s *OrderStore) BestBuy(instrument string) (*domain.Order, bool) {
	b := s.bookFor(instrument)
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.buys.Min()
	if !ok {
		return nil, false
	}
	return entry.Order, true
}

// BestSell returns the highest-priority sell for the instrument: minimum
// price, ties broken by smallest sequence.
func (s *OrderStore) BestSell(instrument string) (*domain.Order, bool) {
	b := s.bookFor(instrument)
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.sells.Min()
	if !ok {
		return nil, false
	}
	return entry.Order, true
}

// WalkBuys iterates buys in priority order (highest price first, then
// earliest arrival). The callback returns true to continue, false to stop.
func (s *OrderStore) WalkBuys(instrument string, fn func(*domain.Order) bool) {
	b := s.bookFor(instrument)
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.buys.Ascend(func(entry bookEntry) bool {
		return fn(entry.Order)
	})
}

// WalkSells iterates sells in priority order (lowest price first, then
// earliest arrival). The callback returns true to continue, false to stop.
func (s *OrderStore) WalkSells(instrument string, fn func(*domain.Order) bool) {
	b := s.bookFor(instrument)
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.sells.Ascend(func(entry bookEntry) bool {
		return fn(entry.Order)
	})
}

// TopBuys returns up to n aggregated price levels from the buy side,
// ordered by price descending.
func (s *OrderStore) TopBuys(instrument string, n int) []PriceLevel {
	b := s.bookFor(instrument)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return topLevels(b.buys, n)
}

// TopSells returns up to n aggregated price levels from the sell side,
// ordered by price ascending.
func (s *OrderStore) TopSells(instrument string, n int) []PriceLevel {
	b := s.bookFor(instrument)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return topLevels(b.sells, n)
}

// BuyCount returns the number of individual buy orders resting for the
// instrument.
func (s *OrderStore) BuyCount(instrument string) int {
	b := s.bookFor(instrument)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.buys.Len()
}

// SellCount returns the number of individual sell orders resting for the
// instrument.
func (s *OrderStore) SellCount(instrument string) int {
	b := s.bookFor(instrument)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sells.Len()
}
