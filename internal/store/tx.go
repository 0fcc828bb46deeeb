package store

import (
	"fmt"

	"github.com/efreitasn/minisettle/internal/domain"
)

// Outbox is the durable queue a settlement's trade event is written to as
// part of the same commit as the trade itself.
type Outbox interface {
	Append(ev domain.TradeEvent) error
}

// TxStore commits a settlement as one atomic unit across the order book,
// the trade ledger, and the outbox. The instrument's book lock is the
// transaction boundary: no reader observes a mutated order without the
// trade, or a trade without its order mutations.
type TxStore struct {
	orders *OrderStore
	ledger *LedgerStore
	outbox Outbox
}

// NewTxStore creates a TxStore over the given stores.
func NewTxStore(orders *OrderStore, ledger *LedgerStore, outbox Outbox) *TxStore {
	return &TxStore{
		orders: orders,
		ledger: ledger,
		outbox: outbox,
	}
}

// CommitSettlement applies a settlement atomically. It verifies both
// orders still carry exactly the volume the matcher read (anything else is
// a concurrency-contract breach reported as ErrSettlementConflict), writes
// the outbox record durably, then applies the delete/decrement mutations
// and the ledger append. The outbox write comes first: if it fails nothing
// is applied and the book still shows both orders untouched.
func (s *TxStore) CommitSettlement(stl *domain.Settlement) error {
	b := s.orders.bookFor(stl.Trade.Instrument)
	b.mu.Lock()
	defer b.mu.Unlock()

	buy, ok := b.index[stl.Buy.OrderID]
	if !ok || buy.Order.Volume != stl.Buy.ExpectedVolume {
		return fmt.Errorf("buy order %s: %w", stl.Buy.OrderID, domain.ErrSettlementConflict)
	}
	sell, ok := b.index[stl.Sell.OrderID]
	if !ok || sell.Order.Volume != stl.Sell.ExpectedVolume {
		return fmt.Errorf("sell order %s: %w", stl.Sell.OrderID, domain.ErrSettlementConflict)
	}

	if err := s.outbox.Append(domain.NewTradeEvent(stl.Trade)); err != nil {
		return fmt.Errorf("%w: outbox append: %v", domain.ErrStoreUnavailable, err)
	}

	applyMutation(b, buy, stl.Buy)
	applyMutation(b, sell, stl.Sell)
	s.ledger.Append(stl.Trade)
	return nil
}

// applyMutation decrements the order's volume by the fill, deleting the
// order when nothing remains. Caller holds the book's write lock.
func applyMutation(b *book, entry bookEntry, m domain.OrderMutation) {
	entry.Order.Volume -= m.Fill
	if entry.Order.Volume == 0 {
		b.remove(m.OrderID)
	}
}
