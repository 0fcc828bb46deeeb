package domain

import "time"

// Outcome classifies an execution: a full execution consumes both orders,
// a partial one leaves residual volume on exactly one side.
type Outcome string

const (
	OutcomeFull    Outcome = "full"
	OutcomePartial Outcome = "partial"
)

// Trade is the immutable record of one execution between a buy and a sell.
type Trade struct {
	TradeID    string
	BuyerID    string
	SellerID   string
	Instrument string
	Volume     int64
	Price      int64 // execution price in cents (the maker's limit price)
	Spread     int64 // price improvement captured, in cents, never negative
	ExecutedAt time.Time
}

// OrderMutation describes the change one resting order absorbs during a
// settlement. ExpectedVolume is the volume the matcher read; the commit is
// rejected with ErrSettlementConflict if the stored volume differs. A Fill
// equal to ExpectedVolume deletes the order, anything less decrements it.
type OrderMutation struct {
	OrderID        string
	ExpectedVolume int64
	Fill           int64
}

// Settlement is the atomic unit handed to the transactional store: the trade
// plus the exact mutation each side of the book must absorb. Either all of
// it commits (both mutations, the ledger append, and the outbox record) or
// none of it is visible.
type Settlement struct {
	Trade *Trade
	Buy   OrderMutation
	Sell  OrderMutation
}
