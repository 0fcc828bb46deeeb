package engine

import (
	"context"
	"log/slog"

	"github.com/efreitasn/minisettle/internal/domain"
)

// Engine drives the matching loop for one instrument at a time: acquire
// the instrument's exclusive section, repeatedly pair and settle the best
// cross, stop when the book no longer crosses.
type Engine struct {
	serializer *InstrumentSerializer
	matcher    *Matcher
	settler    *Settler
	logger     *slog.Logger
}

// NewEngine creates an Engine with the given dependencies.
func NewEngine(serializer *InstrumentSerializer, matcher *Matcher, settler *Settler, logger *slog.Logger) *Engine {
	return &Engine{
		serializer: serializer,
		matcher:    matcher,
		settler:    settler,
		logger:     logger,
	}
}

// Process drains every currently possible cross for the instrument and
// returns the trades it committed, in commit order. Each iteration's
// settlement is an independent atomic unit: trades committed before an
// error stay committed, and the error reports only the aborted iteration.
// The context deadline is honored between iterations, never mid-commit;
// the loop is bounded by the depth of the book and never sleeps.
func (e *Engine) Process(ctx context.Context, instrument string) ([]*domain.Trade, error) {
	unlock := e.serializer.Lock(instrument)
	defer unlock()

	var trades []*domain.Trade
	for {
		if err := ctx.Err(); err != nil {
			return trades, err
		}

		pair, ok := e.matcher.BestPair(instrument)
		if !ok {
			return trades, nil
		}

		trade, outcome, err := e.settler.Execute(pair)
		if err != nil {
			e.logger.Error("settlement aborted",
				slog.String("instrument", instrument),
				slog.String("error", err.Error()),
			)
			return trades, err
		}
		trades = append(trades, trade)

		e.logger.Debug("trade settled",
			slog.String("trade_id", trade.TradeID),
			slog.String("instrument", instrument),
			slog.Int64("volume", trade.Volume),
			slog.Int64("price", trade.Price),
			slog.String("outcome", string(outcome)),
		)
	}
}
