package service

import (
	"github.com/efreitasn/minisettle/internal/domain"
	"github.com/efreitasn/minisettle/internal/store"
)

// defaultBookDepth is the number of aggregated price levels returned per
// side when the caller doesn't ask for a specific depth.
const defaultBookDepth = 10

// BookView is an aggregated snapshot of both sides of an instrument's book.
type BookView struct {
	Instrument string
	Buys       []store.PriceLevel
	Sells      []store.PriceLevel
}

// MarketService serves read-only views of the trade ledger and the book.
type MarketService struct {
	ledger      *store.LedgerStore
	orders      *store.OrderStore
	instruments *domain.InstrumentRegistry
}

// NewMarketService creates a new MarketService with the given dependencies.
func NewMarketService(
	ledger *store.LedgerStore,
	orders *store.OrderStore,
	instruments *domain.InstrumentRegistry,
) *MarketService {
	return &MarketService{
		ledger:      ledger,
		orders:      orders,
		instruments: instruments,
	}
}

// Trades returns all committed trades for an instrument in commit order.
func (s *MarketService) Trades(instrument string) ([]*domain.Trade, error) {
	if !s.instruments.Exists(instrument) {
		return nil, domain.ErrInstrumentNotFound
	}
	return s.ledger.ListByInstrument(instrument), nil
}

// Book returns up to depth aggregated price levels per side. A depth of
// zero or less falls back to the default.
func (s *MarketService) Book(instrument string, depth int) (*BookView, error) {
	if !s.instruments.Exists(instrument) {
		return nil, domain.ErrInstrumentNotFound
	}
	if depth <= 0 {
		depth = defaultBookDepth
	}
	return &BookView{
		Instrument: instrument,
		Buys:       s.orders.TopBuys(instrument, depth),
		Sells:      s.orders.TopSells(instrument, depth),
	}, nil
}
