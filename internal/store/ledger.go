package store

import (
	"sync"

	"github.com/efreitasn/minisettle/internal/domain"
)

// ledgerShard holds one instrument's trades in commit order.
type ledgerShard struct {
	mu     sync.RWMutex
	trades []*domain.Trade
}

// LedgerStore is the append-only trade ledger. Every instrument gets its
// own shard, so appends for different instruments never contend; within
// one instrument, append order is commit order. Trades are immutable once
// appended; the ledger is the durable audit trail.
type LedgerStore struct {
	mu     sync.RWMutex
	shards map[string]*ledgerShard
}

// NewLedgerStore creates an empty LedgerStore.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		shards: make(map[string]*ledgerShard),
	}
}

// shardFor returns the instrument's shard, creating one if needed.
func (s *LedgerStore) shardFor(instrument string) *ledgerShard {
	s.mu.RLock()
	sh, ok := s.shards[instrument]
	s.mu.RUnlock()
	if ok {
		return sh
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sh, ok = s.shards[instrument]; ok {
		return sh
	}
	sh = &ledgerShard{}
	s.shards[instrument] = sh
	return sh
}

// Append records a committed trade at the end of its instrument's shard.
func (s *LedgerStore) Append(t *domain.Trade) {
	sh := s.shardFor(t.Instrument)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.trades = append(sh.trades, t)
}

// ListByInstrument returns all trades for an instrument in commit order.
// The returned slice is a copy; it is empty, never nil, for an instrument
// with no trades.
func (s *LedgerStore) ListByInstrument(instrument string) []*domain.Trade {
	sh := s.shardFor(instrument)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	out := make([]*domain.Trade, len(sh.trades))
	copy(out, sh.trades)
	return out
}
