package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/minisettle/internal/domain"
)

// SettlementCommitter applies one settlement atomically across the order
// book, the trade ledger, and the outbox.
type SettlementCommitter interface {
	CommitSettlement(stl *domain.Settlement) error
}

// Settler turns one crossable pair into exactly one committed trade.
type Settler struct {
	tx  SettlementCommitter
	now func() time.Time
}

// NewSettler creates a Settler committing through tx.
func NewSettler(tx SettlementCommitter) *Settler {
	return &Settler{tx: tx, now: time.Now}
}

// Execute settles the pair atomically. The matched volume is the smaller
// side's remaining volume; the execution price is the maker's limit (the
// order with the smaller sequence was already resting when the other
// arrived); the spread is the price improvement the taker captures, which
// crossability keeps non-negative. Returns the committed trade and
// whether the execution was full or partial.
func (s *Settler) Execute(pair Pair) (*domain.Trade, domain.Outcome, error) {
	buy, sell := pair.Buy, pair.Sell

	if buy.UserID == sell.UserID {
		return nil, "", fmt.Errorf("user %s on both sides: %w", buy.UserID, domain.ErrSelfTrade)
	}
	if buy.Price < sell.Price {
		return nil, "", fmt.Errorf("buy %d below sell %d: %w", buy.Price, sell.Price, domain.ErrSettlementConflict)
	}

	matched := min(buy.Volume, sell.Volume)

	price := buy.Price
	if sell.Sequence < buy.Sequence {
		price = sell.Price
	}
	spread := (buy.Price - sell.Price) * matched

	outcome := domain.OutcomePartial
	if buy.Volume == sell.Volume {
		outcome = domain.OutcomeFull
	}

	trade := &domain.Trade{
		TradeID:    uuid.New().String(),
		BuyerID:    buy.UserID,
		SellerID:   sell.UserID,
		Instrument: buy.Instrument,
		Volume:     matched,
		Price:      price,
		Spread:     spread,
		ExecutedAt: s.now(),
	}

	stl := &domain.Settlement{
		Trade: trade,
		Buy: domain.OrderMutation{
			OrderID:        buy.ID,
			ExpectedVolume: buy.Volume,
			Fill:           matched,
		},
		Sell: domain.OrderMutation{
			OrderID:        sell.ID,
			ExpectedVolume: sell.Volume,
			Fill:           matched,
		},
	}

	if err := s.tx.CommitSettlement(stl); err != nil {
		return nil, "", err
	}
	return trade, outcome, nil
}
