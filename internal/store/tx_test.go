package store

import (
	"errors"
	"testing"
	"time"

	"github.com/efreitasn/minisettle/internal/domain"
)

// memOutbox records appended events in memory. failErr, when set, makes
// every append fail.
type memOutbox struct {
	events  []domain.TradeEvent
	failErr error
}

func (m *memOutbox) Append(ev domain.TradeEvent) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.events = append(m.events, ev)
	return nil
}

func newTxFixture(t *testing.T) (*TxStore, *OrderStore, *LedgerStore, *memOutbox) {
	t.Helper()
	orders := NewOrderStore()
	ledger := NewLedgerStore()
	box := &memOutbox{}
	return NewTxStore(orders, ledger, box), orders, ledger, box
}

func settlementFor(buy, sell *domain.Order, fill int64) *domain.Settlement {
	return &domain.Settlement{
		Trade: &domain.Trade{
			TradeID:    "trade-1",
			BuyerID:    buy.UserID,
			SellerID:   sell.UserID,
			Instrument: buy.Instrument,
			Volume:     fill,
			Price:      sell.Price,
			Spread:     (buy.Price - sell.Price) * fill,
			ExecutedAt: time.Now(),
		},
		Buy:  domain.OrderMutation{OrderID: buy.ID, ExpectedVolume: buy.Volume, Fill: fill},
		Sell: domain.OrderMutation{OrderID: sell.ID, ExpectedVolume: sell.Volume, Fill: fill},
	}
}

func TestCommitSettlement_Full_DeletesBothSides(t *testing.T) {
	tx, orders, ledger, box := newTxFixture(t)

	buy := newOrder("b1", "alice", domain.SideBuy, 10000, 10)
	sell := newOrder("s1", "bob", domain.SideSell, 10000, 10)
	mustInsert(t, orders, sell)
	mustInsert(t, orders, buy)

	if err := tx.CommitSettlement(settlementFor(buy, sell, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := orders.Get("ACME", "b1"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Error("expected buy order deleted")
	}
	if _, err := orders.Get("ACME", "s1"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Error("expected sell order deleted")
	}

	trades := ledger.ListByInstrument("ACME")
	if len(trades) != 1 || trades[0].Volume != 10 {
		t.Fatalf("expected one ledger trade of volume 10, got %v", trades)
	}

	if len(box.events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(box.events))
	}
	if box.events[0].Company != "ACME" || box.events[0].Volume != 10 {
		t.Errorf("outbox event = %+v", box.events[0])
	}
}

func TestCommitSettlement_Partial_DecrementsLargerSide(t *testing.T) {
	tx, orders, _, _ := newTxFixture(t)

	buy := newOrder("b1", "alice", domain.SideBuy, 10100, 4)
	sell := newOrder("s1", "bob", domain.SideSell, 9900, 10)
	mustInsert(t, orders, sell)
	mustInsert(t, orders, buy)

	if err := tx.CommitSettlement(settlementFor(buy, sell, 4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := orders.Get("ACME", "b1"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Error("expected smaller buy side deleted")
	}

	remaining, err := orders.Get("ACME", "s1")
	if err != nil {
		t.Fatalf("expected sell order to remain: %v", err)
	}
	if remaining.Volume != 6 {
		t.Errorf("sell volume = %d, want 6", remaining.Volume)
	}
}

func TestCommitSettlement_Conflict_StaleVolume(t *testing.T) {
	tx, orders, ledger, box := newTxFixture(t)

	buy := newOrder("b1", "alice", domain.SideBuy, 10000, 10)
	sell := newOrder("s1", "bob", domain.SideSell, 10000, 10)
	mustInsert(t, orders, sell)
	mustInsert(t, orders, buy)

	stl := settlementFor(buy, sell, 10)
	stl.Sell.ExpectedVolume = 7 // matcher supposedly read a different book state

	err := tx.CommitSettlement(stl)
	if !errors.Is(err, domain.ErrSettlementConflict) {
		t.Fatalf("expected ErrSettlementConflict, got %v", err)
	}

	// Nothing may be applied.
	if got, _ := orders.Get("ACME", "b1"); got.Volume != 10 {
		t.Errorf("buy volume = %d, want untouched 10", got.Volume)
	}
	if len(ledger.ListByInstrument("ACME")) != 0 {
		t.Error("expected empty ledger after conflict")
	}
	if len(box.events) != 0 {
		t.Error("expected empty outbox after conflict")
	}
}

func TestCommitSettlement_Conflict_DeletedOrder(t *testing.T) {
	tx, orders, _, _ := newTxFixture(t)

	buy := newOrder("b1", "alice", domain.SideBuy, 10000, 10)
	sell := newOrder("s1", "bob", domain.SideSell, 10000, 10)
	mustInsert(t, orders, sell)
	mustInsert(t, orders, buy)

	stl := settlementFor(buy, sell, 10)
	if err := tx.CommitSettlement(stl); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	// Replaying the same settlement must conflict: both orders are gone.
	err := tx.CommitSettlement(stl)
	if !errors.Is(err, domain.ErrSettlementConflict) {
		t.Fatalf("expected ErrSettlementConflict on replay, got %v", err)
	}
}

func TestCommitSettlement_OutboxFailure_NothingApplied(t *testing.T) {
	tx, orders, ledger, box := newTxFixture(t)
	box.failErr = errors.New("disk full")

	buy := newOrder("b1", "alice", domain.SideBuy, 10000, 10)
	sell := newOrder("s1", "bob", domain.SideSell, 10000, 10)
	mustInsert(t, orders, sell)
	mustInsert(t, orders, buy)

	err := tx.CommitSettlement(settlementFor(buy, sell, 10))
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	// The book and ledger must still show the pre-commit state.
	if got, _ := orders.Get("ACME", "b1"); got == nil || got.Volume != 10 {
		t.Error("expected buy order untouched after outbox failure")
	}
	if got, _ := orders.Get("ACME", "s1"); got == nil || got.Volume != 10 {
		t.Error("expected sell order untouched after outbox failure")
	}
	if len(ledger.ListByInstrument("ACME")) != 0 {
		t.Error("expected empty ledger after outbox failure")
	}
}
