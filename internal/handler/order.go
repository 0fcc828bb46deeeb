package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minisettle/internal/domain"
	"github.com/efreitasn/minisettle/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// submitBidRequest is the JSON request body for POST /orders.
type submitBidRequest struct {
	UserID     string   `json:"user_id"`
	Instrument string   `json:"instrument"`
	Side       string   `json:"side"`
	Volume     int64    `json:"volume"`
	Price      *float64 `json:"price"`
}

// orderResponse is the JSON representation of an order.
type orderResponse struct {
	OrderID         string  `json:"order_id"`
	UserID          string  `json:"user_id"`
	Instrument      string  `json:"instrument"`
	Side            string  `json:"side"`
	Volume          int64   `json:"volume"`
	RemainingVolume int64   `json:"remaining_volume"`
	Price           float64 `json:"price"`
	Sequence        uint64  `json:"sequence"`
	CreatedAt       string  `json:"created_at"`
}

// tradeResponse is the JSON representation of a committed trade.
type tradeResponse struct {
	TradeID    string  `json:"trade_id"`
	Buyer      string  `json:"buyer"`
	Seller     string  `json:"seller"`
	Instrument string  `json:"instrument"`
	Volume     int64   `json:"volume"`
	Price      float64 `json:"price"`
	Spread     float64 `json:"spread"`
	ExecutedAt string  `json:"executed_at"`
}

// submitBidResponse is the JSON response for POST /orders.
type submitBidResponse struct {
	Order  orderResponse   `json:"order"`
	Trades []tradeResponse `json:"trades"`
}

// SubmitBid handles POST /orders.
func (h *OrderHandler) SubmitBid(w http.ResponseWriter, r *http.Request) {
	var req submitBidRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, trades, err := h.orderSvc.SubmitBid(r.Context(), service.SubmitBidRequest{
		UserID:     req.UserID,
		Instrument: req.Instrument,
		Side:       domain.Side(req.Side),
		Volume:     req.Volume,
		Price:      req.Price,
	})
	if err != nil {
		// A deadline expiry or client disconnect still reports the
		// trades that committed before the loop stopped.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			code := "match_timeout"
			if errors.Is(err, context.Canceled) {
				code = "match_canceled"
			}
			WriteJSON(w, http.StatusGatewayTimeout, map[string]any{
				"error":   code,
				"message": "matching stopped before the book was drained; listed trades are committed",
				"trades":  toTradeResponses(trades),
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, submitBidResponse{
		Order:  toOrderResponse(order, req.Volume),
		Trades: toTradeResponses(trades),
	})
}

// GetOrder handles GET /instruments/{instrument}/orders/{order_id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	instrument := chi.URLParam(r, "instrument")
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orderSvc.GetOrder(instrument, orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toOrderResponse(order, order.Volume))
}

// writeDomainError maps domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		WriteError(w, http.StatusBadRequest, "validation_error", vErr.Message)
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", "Order not found")
	case errors.Is(err, domain.ErrInstrumentNotFound):
		WriteError(w, http.StatusNotFound, "instrument_not_found", "Instrument not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "store_unavailable", "Storage temporarily unavailable")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func toOrderResponse(o *domain.Order, submittedVolume int64) orderResponse {
	return orderResponse{
		OrderID:         o.ID,
		UserID:          o.UserID,
		Instrument:      o.Instrument,
		Side:            string(o.Side),
		Volume:          submittedVolume,
		RemainingVolume: o.Volume,
		Price:           domain.CentsToDollars(o.Price),
		Sequence:        o.Sequence,
		CreatedAt:       o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toTradeResponses(trades []*domain.Trade) []tradeResponse {
	out := make([]tradeResponse, 0, len(trades))
	for _, t := range trades {
		out = append(out, tradeResponse{
			TradeID:    t.TradeID,
			Buyer:      t.BuyerID,
			Seller:     t.SellerID,
			Instrument: t.Instrument,
			Volume:     t.Volume,
			Price:      domain.CentsToDollars(t.Price),
			Spread:     domain.CentsToDollars(t.Spread),
			ExecutedAt: t.ExecutedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
