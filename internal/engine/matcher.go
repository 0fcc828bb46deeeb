package engine

import "github.com/efreitasn/minisettle/internal/domain"

// BookReader is the read surface the matcher needs from the order store.
type BookReader interface {
	BestBuy(instrument string) (*domain.Order, bool)
	BestSell(instrument string) (*domain.Order, bool)
	WalkBuys(instrument string, fn func(*domain.Order) bool)
	WalkSells(instrument string, fn func(*domain.Order) bool)
}

// Pair is a crossable buy/sell combination.
type Pair struct {
	Buy  *domain.Order
	Sell *domain.Order
}

// Matcher selects the best crossable pair for an instrument. It never
// mutates the book; callers invoke it inside the instrument's exclusive
// section so no settlement can remove or mutate an order mid-pass.
type Matcher struct {
	books BookReader
}

// NewMatcher creates a Matcher reading from the given book.
func NewMatcher(books BookReader) *Matcher {
	return &Matcher{books: books}
}

// BestPair returns the highest-priority crossable pair whose two sides
// belong to different users, in price-then-sequence priority: buys from
// highest price and earliest arrival down, and for each buy the first
// sell it crosses. Pairs where one user would trade with itself are
// skipped, never executed. Returns false when no executable cross remains.
//
// The sell side is snapshotted before the buy side is walked. The walks
// must not nest: each takes the book's read lock, and a reader acquired
// inside another reader's callback blocks behind any writer waiting to
// insert. The snapshot stays valid for the whole pass because only a
// settlement removes or shrinks an order, and settlements run under the
// exclusive section the caller already holds.
func (m *Matcher) BestPair(instrument string) (Pair, bool) {
	bestBuy, okBuy := m.books.BestBuy(instrument)
	bestSell, okSell := m.books.BestSell(instrument)
	if !okBuy || !okSell || bestBuy.Price < bestSell.Price {
		return Pair{}, false
	}

	// Only sells at or below the best buy can cross any buy at all.
	var sells []*domain.Order
	m.books.WalkSells(instrument, func(sell *domain.Order) bool {
		if sell.Price > bestBuy.Price {
			return false
		}
		sells = append(sells, sell)
		return true
	})

	var pair Pair
	var found bool

	m.books.WalkBuys(instrument, func(buy *domain.Order) bool {
		if buy.Price < bestSell.Price {
			// No sell crosses this buy, and every later buy is worse.
			return false
		}
		for _, sell := range sells {
			if buy.Price < sell.Price {
				break
			}
			if buy.UserID == sell.UserID {
				// Self-trade: skip this sell, keep looking.
				continue
			}
			pair = Pair{Buy: buy, Sell: sell}
			found = true
			return false
		}
		return true
	})

	return pair, found
}
