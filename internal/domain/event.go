package domain

// TradeEvent is the payload published to the transactions topic after a
// settlement commits. Field names follow the downstream wire format.
type TradeEvent struct {
	Buyer   string `json:"buyer"`
	Seller  string `json:"seller"`
	Company string `json:"company"`
	Volume  int64  `json:"volume"`
	Price   int64  `json:"price"`
	Spread  int64  `json:"spread"`
}

// NewTradeEvent builds the published form of a trade.
func NewTradeEvent(t *Trade) TradeEvent {
	return TradeEvent{
		Buyer:   t.BuyerID,
		Seller:  t.SellerID,
		Company: t.Instrument,
		Volume:  t.Volume,
		Price:   t.Price,
		Spread:  t.Spread,
	}
}
