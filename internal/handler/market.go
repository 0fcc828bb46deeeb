package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minisettle/internal/domain"
	"github.com/efreitasn/minisettle/internal/service"
	"github.com/efreitasn/minisettle/internal/store"
)

// MarketHandler handles HTTP requests for ledger and book endpoints.
type MarketHandler struct {
	marketSvc *service.MarketService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc *service.MarketService) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc}
}

// priceLevelResponse is one aggregated price level in the book response.
type priceLevelResponse struct {
	Price       float64 `json:"price"`
	TotalVolume int64   `json:"total_volume"`
	OrderCount  int     `json:"order_count"`
}

// bookResponse is the JSON response for GET /instruments/{instrument}/book.
type bookResponse struct {
	Instrument string               `json:"instrument"`
	Buys       []priceLevelResponse `json:"buys"`
	Sells      []priceLevelResponse `json:"sells"`
}

// ListTrades handles GET /instruments/{instrument}/trades.
func (h *MarketHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	instrument := chi.URLParam(r, "instrument")

	trades, err := h.marketSvc.Trades(instrument)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"instrument": instrument,
		"trades":     toTradeResponses(trades),
	})
}

// GetBook handles GET /instruments/{instrument}/book. The optional depth
// query parameter bounds the number of price levels per side.
func (h *MarketHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	instrument := chi.URLParam(r, "instrument")

	depth := 0
	if v := r.URL.Query().Get("depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "depth must be a positive integer")
			return
		}
		depth = n
	}

	view, err := h.marketSvc.Book(instrument, depth)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, bookResponse{
		Instrument: view.Instrument,
		Buys:       toPriceLevelResponses(view.Buys),
		Sells:      toPriceLevelResponses(view.Sells),
	})
}

func toPriceLevelResponses(levels []store.PriceLevel) []priceLevelResponse {
	out := make([]priceLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, priceLevelResponse{
			Price:       domain.CentsToDollars(l.Price),
			TotalVolume: l.TotalVolume,
			OrderCount:  l.OrderCount,
		})
	}
	return out
}
