// Package metrics is the engine's operational-visibility surface: order
// admission/rejection counts, book depth, and matching latency. This is
// distinct from market-data publishing to external subscribers, which
// remains out of scope for the engine itself.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds the engine's Prometheus instruments. A nil
// *Collector is safe to call methods on -- every method is a no-op in
// that case, so the book/engine packages can be exercised in tests
// without a running registry.
type Collector struct {
	OrdersAdmitted  *prometheus.CounterVec
	OrdersRejected  *prometheus.CounterVec
	OrdersCancelled prometheus.Counter
	OrdersExpired   prometheus.Counter

	TradesTotal prometheus.Counter
	TradeVolume prometheus.Counter

	BookDepth *prometheus.GaugeVec

	MatchLatency prometheus.Histogram
}

// New builds a Collector and registers its instruments against reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		OrdersAdmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lob",
			Name:      "orders_admitted_total",
			Help:      "Orders admitted to the book, by order type.",
		}, []string{"order_type"}),
		OrdersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lob",
			Name:      "orders_rejected_total",
			Help:      "Orders rejected before admission, by reason.",
		}, []string{"reason"}),
		OrdersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lob",
			Name:      "orders_cancelled_total",
			Help:      "Orders removed via the cancel path, including those swept by the expiry task.",
		}),
		OrdersExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lob",
			Name:      "orders_expired_total",
			Help:      "GoodForDay orders swept by the expiry task.",
		}),
		TradesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lob",
			Name:      "trades_total",
			Help:      "Trades produced by the matching core.",
		}),
		TradeVolume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lob",
			Name:      "trade_volume_total",
			Help:      "Cumulative matched quantity.",
		}),
		BookDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lob",
			Name:      "book_depth",
			Help:      "Resting order count, by side.",
		}, []string{"side"}),
		MatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lob",
			Name:      "match_latency_seconds",
			Help:      "Wall time of a single match_orders pass.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.OrdersAdmitted, c.OrdersRejected, c.OrdersCancelled, c.OrdersExpired,
		c.TradesTotal, c.TradeVolume, c.BookDepth, c.MatchLatency,
	)
	return c
}

func (c *Collector) IncAdmitted(orderType string) {
	if c == nil {
		return
	}
	c.OrdersAdmitted.WithLabelValues(orderType).Inc()
}

func (c *Collector) IncRejected(reason string) {
	if c == nil {
		return
	}
	c.OrdersRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) IncCancelled() {
	if c == nil {
		return
	}
	c.OrdersCancelled.Inc()
}

func (c *Collector) AddExpired(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.OrdersExpired.Add(float64(n))
}

func (c *Collector) ObserveTrade(quantity uint64) {
	if c == nil {
		return
	}
	c.TradesTotal.Inc()
	c.TradeVolume.Add(float64(quantity))
}

func (c *Collector) SetDepth(side string, count int) {
	if c == nil {
		return
	}
	c.BookDepth.WithLabelValues(side).Set(float64(count))
}

func (c *Collector) ObserveMatchLatencySeconds(seconds float64) {
	if c == nil {
		return
	}
	c.MatchLatency.Observe(seconds)
}
