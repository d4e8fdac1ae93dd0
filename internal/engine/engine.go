// Package engine is the matching core: it owns a single price-level
// index behind one mutex and implements add/cancel/modify, the cross
// loop that produces trades, and the order-type semantics (GTC, Day,
// FAK, FOK, Market) layered on top of it.
package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ticklob/internal/book"
	"ticklob/internal/config"
	"ticklob/internal/metrics"

	tomb "gopkg.in/tomb.v2"
)

// Engine is the matching core for a single symbol. The zero value is
// not usable; construct with New.
type Engine struct {
	symbol string
	cfg    config.Config

	mu  sync.Mutex
	idx *book.PriceLevelIndex

	logger  zerolog.Logger
	metrics *metrics.Collector
	now     func() time.Time

	tmb *tomb.Tomb
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger attaches a structured logger. The default is a disabled
// logger, so using the engine as a library without configuring
// logging produces no output.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics attaches a metrics collector. Nil (the default) is a
// valid, no-op collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// WithClock overrides the engine's notion of "now", used by the expiry
// task to compute the next daily cutoff and by the matching loop to
// time each pass for the latency histogram. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New constructs an Engine for a single symbol, scoped by cfg.
func New(cfg config.Config, opts ...Option) *Engine {
	e := &Engine{
		symbol: cfg.Symbol,
		cfg:    cfg,
		idx:    book.NewPriceLevelIndex(),
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddRequest is the input to Add.
type AddRequest struct {
	Type     book.OrderType
	ID       book.OrderID
	Side     book.Side
	Price    book.Price // ignored for Market
	Quantity book.Quantity
}

// ModifyRequest is the input to Modify: cancel the order at ID and
// re-add it with these fields, preserving its original order type.
type ModifyRequest struct {
	ID       book.OrderID
	Side     book.Side
	Price    book.Price
	Quantity book.Quantity
}

// Size returns the number of live resting orders.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.idx.Size()
}

// Snapshot is a consistent point-in-time view of both ladders.
type Snapshot struct {
	Bids []book.LevelView
	Asks []book.LevelView
}

// Snapshot takes a consistent point-in-time view of the book under the
// book lock.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	bids, asks := e.idx.Snapshot()
	return Snapshot{Bids: bids, Asks: asks}
}
