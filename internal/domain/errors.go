package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrOrderNotFound      = errors.New("order_not_found")
	ErrInstrumentNotFound = errors.New("instrument_not_found")
	ErrStoreUnavailable   = errors.New("store_unavailable")
	ErrSettlementConflict = errors.New("settlement_conflict")
	ErrPublishUnavailable = errors.New("publish_unavailable")
	ErrSelfTrade          = errors.New("self_trade_rejected")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
