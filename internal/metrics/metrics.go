// Package metrics exposes lottery activity to Prometheus.
package metrics

import (
	"math/big"
	"net/http"
	"time"

	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lottery"

// Upkeep results
const (
	UpkeepPerformed = "performed"
	UpkeepNotNeeded = "not_needed"
	UpkeepFailed    = "failed"
)

// Fulfillment outcomes
const (
	FulfillmentPaid           = "paid"
	FulfillmentUnknownRequest = "unknown_request"
	FulfillmentNoWords        = "no_words"
	FulfillmentPayoutFailed   = "payout_failed"
)

// Metrics holds the lottery collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	entries            prometheus.Counter
	entrants           prometheus.Gauge
	pool               prometheus.Gauge
	state              prometheus.Gauge
	round              prometheus.Gauge
	upkeeps            *prometheus.CounterVec
	fulfillments       *prometheus.CounterVec
	fulfillmentLatency prometheus.Histogram
	snapshotFailures   prometheus.Counter
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		entries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_total",
			Help:      "Total number of accepted entries.",
		}),
		entrants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entrants",
			Help:      "Entrants in the current round.",
		}),
		pool: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_wei",
			Help:      "Value held in the current round, in wei.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "calculating",
			Help:      "1 while a winner is being drawn, 0 while open.",
		}),
		round: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "round",
			Help:      "Current round number.",
		}),
		upkeeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upkeeps_total",
			Help:      "Upkeep executions by result.",
		}, []string{"result"}),
		fulfillments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fulfillments_total",
			Help:      "Randomness fulfillments by outcome.",
		}, []string{"outcome"}),
		fulfillmentLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fulfillment_latency_seconds",
			Help:      "Time from randomness request to payout.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		snapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_failures_total",
			Help:      "Round snapshots that could not be saved.",
		}),
	}

	m.registry.MustRegister(
		m.entries,
		m.entrants,
		m.pool,
		m.state,
		m.round,
		m.upkeeps,
		m.fulfillments,
		m.fulfillmentLatency,
		m.snapshotFailures,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	return m
}

// Handler serves the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRound mirrors the round into the gauges
func (m *Metrics) ObserveRound(round *models.Round) {
	if m == nil || round == nil {
		return
	}

	m.entrants.Set(float64(len(round.Entrants)))
	m.pool.Set(weiFloat(round.Pool))
	m.round.Set(float64(round.Number))
	if round.State.IsCalculating() {
		m.state.Set(1)
	} else {
		m.state.Set(0)
	}
}

func (m *Metrics) EntryAccepted() {
	if m == nil {
		return
	}
	m.entries.Inc()
}

func (m *Metrics) Upkeep(result string) {
	if m == nil {
		return
	}
	m.upkeeps.WithLabelValues(result).Inc()
}

func (m *Metrics) Fulfillment(outcome string) {
	if m == nil {
		return
	}
	m.fulfillments.WithLabelValues(outcome).Inc()
}

// PayoutLatency records how long a round waited on randomness
func (m *Metrics) PayoutLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.fulfillmentLatency.Observe(d.Seconds())
}

func (m *Metrics) SnapshotFailed() {
	if m == nil {
		return
	}
	m.snapshotFailures.Inc()
}

func weiFloat(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(wei).Float64()
	return f
}
