package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/minisettle/internal/domain"
	"github.com/efreitasn/minisettle/internal/engine"
	"github.com/efreitasn/minisettle/internal/store"
)

var instrumentRegex = regexp.MustCompile(`^[A-Z]{1,10}$`)

// SubmitBidRequest represents the input for bid submission. A bid is an
// incoming buy or sell that rests on the book and triggers matching.
type SubmitBidRequest struct {
	UserID     string
	Instrument string
	Side       domain.Side
	Volume     int64
	Price      *float64
}

// OrderService validates incoming bids, rests them on the book, and runs
// the matching engine for the bid's instrument.
type OrderService struct {
	orders      *store.OrderStore
	engine      *engine.Engine
	instruments *domain.InstrumentRegistry
	timeout     time.Duration
}

// NewOrderService creates a new OrderService with the given dependencies.
// timeout bounds one matching pass; zero disables the deadline.
func NewOrderService(
	orders *store.OrderStore,
	eng *engine.Engine,
	instruments *domain.InstrumentRegistry,
	timeout time.Duration,
) *OrderService {
	return &OrderService{
		orders:      orders,
		engine:      eng,
		instruments: instruments,
		timeout:     timeout,
	}
}

// SubmitBid validates the request, rests the order on the book, and
// drains every cross the new order makes possible. It returns the created
// order and the trades committed during this pass. Trades already
// committed are returned even when the pass ends with an error.
func (s *OrderService) SubmitBid(ctx context.Context, req SubmitBidRequest) (*domain.Order, []*domain.Trade, error) {
	if req.UserID == "" {
		return nil, nil, &domain.ValidationError{Message: "user_id is required"}
	}
	if !instrumentRegex.MatchString(req.Instrument) {
		return nil, nil, &domain.ValidationError{Message: "instrument must be 1-10 uppercase letters"}
	}
	if req.Side != domain.SideBuy && req.Side != domain.SideSell {
		return nil, nil, &domain.ValidationError{
			Message: fmt.Sprintf("Unknown side: %s. Must be one of: buy, sell", req.Side),
		}
	}
	if req.Volume <= 0 {
		return nil, nil, &domain.ValidationError{Message: "volume must be greater than zero"}
	}
	if req.Price == nil {
		return nil, nil, &domain.ValidationError{Message: "price is required"}
	}

	cents, err := domain.DollarsToCents(*req.Price)
	if err != nil {
		return nil, nil, &domain.ValidationError{Message: err.Error()}
	}
	if cents <= 0 {
		return nil, nil, &domain.ValidationError{Message: "price must be greater than zero"}
	}

	order := &domain.Order{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		Instrument: req.Instrument,
		Side:       req.Side,
		Volume:     req.Volume,
		Price:      cents,
		CreatedAt:  time.Now(),
	}

	s.instruments.Register(req.Instrument)

	if err := s.orders.Insert(order); err != nil {
		return nil, nil, fmt.Errorf("%w: insert order: %v", domain.ErrStoreUnavailable, err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	trades, procErr := s.engine.Process(ctx, req.Instrument)

	// Return a snapshot rather than the live order: once the pass is over
	// another instrument cycle may decrement its volume at any time.
	snapshot, err := s.orders.Get(req.Instrument, order.ID)
	if err != nil {
		// Fully filled orders are deleted from the book.
		filled := *order
		filled.Volume = 0
		snapshot = &filled
	}
	return snapshot, trades, procErr
}

// GetOrder returns a resting order. Fully filled orders are deleted and
// report domain.ErrOrderNotFound.
func (s *OrderService) GetOrder(instrument, orderID string) (*domain.Order, error) {
	if !s.instruments.Exists(instrument) {
		return nil, domain.ErrInstrumentNotFound
	}
	return s.orders.Get(instrument, orderID)
}
