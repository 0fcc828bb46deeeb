package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewTradeEvent(t *testing.T) {
	trade := &Trade{
		TradeID:    "trade-1",
		BuyerID:    "alice",
		SellerID:   "bob",
		Instrument: "ACME",
		Volume:     10,
		Price:      10000,
		Spread:     500,
		ExecutedAt: time.Now(),
	}

	ev := NewTradeEvent(trade)

	if ev.Buyer != "alice" {
		t.Errorf("Buyer = %q, want %q", ev.Buyer, "alice")
	}
	if ev.Seller != "bob" {
		t.Errorf("Seller = %q, want %q", ev.Seller, "bob")
	}
	if ev.Company != "ACME" {
		t.Errorf("Company = %q, want %q", ev.Company, "ACME")
	}
	if ev.Volume != 10 || ev.Price != 10000 || ev.Spread != 500 {
		t.Errorf("got volume=%d price=%d spread=%d, want 10/10000/500", ev.Volume, ev.Price, ev.Spread)
	}
}

func TestTradeEvent_WireFormat(t *testing.T) {
	ev := TradeEvent{
		Buyer:   "alice",
		Seller:  "bob",
		Company: "ACME",
		Volume:  10,
		Price:   10000,
		Spread:  0,
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"buyer", "seller", "company", "volume", "price", "spread"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("wire payload missing field %q", key)
		}
	}
}
