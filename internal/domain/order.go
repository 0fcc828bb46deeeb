package domain

import "time"

// Side indicates whether an order buys or sells the instrument.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Order represents a resting intent to trade one instrument. Every field
// except Volume is immutable after creation. Volume is decremented (or the
// order deleted outright) exclusively by the settlement path; an order whose
// volume reaches zero is removed from the store, never kept at zero.
type Order struct {
	ID         string
	UserID     string
	Instrument string
	Side       Side
	Volume     int64  // remaining unmatched quantity, > 0 while the order exists
	Price      int64  // limit price in cents
	Sequence   uint64 // per-instrument arrival marker, assigned by the order store
	CreatedAt  time.Time
}
