package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/efreitasn/minisettle/internal/domain"
)

// relayBatchSize bounds how many records one drain pass loads at a time.
const relayBatchSize = 64

// Publisher delivers a trade event downstream.
type Publisher interface {
	Publish(ctx context.Context, ev domain.TradeEvent) error
}

// Relay drains the outbox to the publisher on a fixed interval. A failed
// publish leaves the record queued for the next pass, so an unavailable
// publisher never blocks settlement and never loses an event.
type Relay struct {
	outbox   *Outbox
	pub      Publisher
	interval time.Duration
	logger   *slog.Logger
}

// NewRelay creates a Relay draining the given outbox to pub.
func NewRelay(outbox *Outbox, pub Publisher, interval time.Duration, logger *slog.Logger) *Relay {
	return &Relay{
		outbox:   outbox,
		pub:      pub,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the relay loop until the context is cancelled. One drain
// pass runs immediately on startup to flush records left over from a
// previous run.
func (r *Relay) Start(ctx context.Context) {
	r.Drain(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Drain(ctx)
		}
	}
}

// Drain publishes queued records in enqueue order until the outbox is
// empty or a publish fails. On failure the record's attempt count is
// bumped and the pass stops, backing off until the next tick.
func (r *Relay) Drain(ctx context.Context) {
	for {
		recs, err := r.outbox.Pending(relayBatchSize)
		if err != nil {
			r.logger.Error("outbox read failed", slog.String("error", err.Error()))
			return
		}
		if len(recs) == 0 {
			return
		}

		for _, rec := range recs {
			if err := r.pub.Publish(ctx, rec.Event); err != nil {
				r.logger.Warn("publish failed",
					slog.Uint64("seq", rec.Seq),
					slog.String("company", rec.Event.Company),
					slog.Int("attempts", rec.Attempts+1),
					slog.String("error", err.Error()),
				)
				if err := r.outbox.MarkFailed(rec); err != nil {
					r.logger.Error("outbox update failed", slog.String("error", err.Error()))
				}
				return
			}
			if err := r.outbox.MarkPublished(rec.Seq); err != nil {
				r.logger.Error("outbox delete failed", slog.String("error", err.Error()))
				return
			}
		}

		if len(recs) < relayBatchSize {
			return
		}
	}
}
