package store

import (
	"sync"

	"github.com/google/btree"

	"github.com/efreitasn/minisettle/internal/domain"
)

// bookEntry is a single order resting on one side of the book.
type bookEntry struct {
	Price    int64
	Sequence uint64
	Order    *domain.Order
}

// PriceLevel represents an aggregated price level in the order book.
type PriceLevel struct {
	Price       int64
	TotalVolume int64
	OrderCount  int
}

// buyLess defines ordering for the buy side: price descending, then
// sequence ascending. Min() therefore returns the best buy (highest
// price, earliest arrival).
func buyLess(a, b bookEntry) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.Sequence < b.Sequence
}

// sellLess defines ordering for the sell side: price ascending, then
// sequence ascending. Min() returns the best sell (lowest price,
// earliest arrival).
func sellLess(a, b bookEntry) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.Sequence < b.Sequence
}

// book maintains the buy and sell sides for a single instrument using
// B-trees with a secondary index for O(log n) removal by order ID. Its
// mutex is also the write boundary for settlement commits touching the
// instrument (see TxStore).
type book struct {
	instrument string
	mu         sync.RWMutex
	buys       *btree.BTreeG[bookEntry]
	sells      *btree.BTreeG[bookEntry]
	index      map[string]bookEntry // order id → entry
	seq        uint64               // last assigned arrival sequence
}

func newBook(instrument string) *book {
	const degree = 32
	return &book{
		instrument: instrument,
		buys:       btree.NewG[bookEntry](degree, buyLess),
		sells:      btree.NewG[bookEntry](degree, sellLess),
		index:      make(map[string]bookEntry),
	}
}

// insert assigns the next arrival sequence to the order and rests it on
// its side. Caller must hold b.mu.
func (b *book) insert(o *domain.Order) {
	b.seq++
	o.Sequence = b.seq

	entry := bookEntry{
		Price:    o.Price,
		Sequence: o.Sequence,
		Order:    o,
	}
	if o.Side == domain.SideBuy {
		b.buys.ReplaceOrInsert(entry)
	} else {
		b.sells.ReplaceOrInsert(entry)
	}
	b.index[o.ID] = entry
}

// remove deletes an order from the book by ID using the secondary index.
// Caller must hold b.mu. Delete is a no-op on the side the entry isn't on.
func (b *book) remove(orderID string) {
	entry, ok := b.index[orderID]
	if !ok {
		return
	}
	delete(b.index, orderID)
	b.buys.Delete(entry)
	b.sells.Delete(entry)
}

// topLevels iterates a side in priority order and aggregates entries into
// at most n price levels.
func topLevels(tree *btree.BTreeG[bookEntry], n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	levels := make([]PriceLevel, 0, n)
	tree.Ascend(func(entry bookEntry) bool {
		if len(levels) > 0 && levels[len(levels)-1].Price == entry.Price {
			levels[len(levels)-1].TotalVolume += entry.Order.Volume
			levels[len(levels)-1].OrderCount++
			return true
		}
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceLevel{
			Price:       entry.Price,
			TotalVolume: entry.Order.Volume,
			OrderCount:  1,
		})
		return true
	})
	return levels
}
