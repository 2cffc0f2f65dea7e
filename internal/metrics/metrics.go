// Package metrics exposes workflow counters on a private Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/cradoe/remitflow/internal/transfer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	quotesRejected    *prometheus.CounterVec
	otpFailures       *prometheus.CounterVec
	lookupDuration    *prometheus.HistogramVec
	transitions       *prometheus.CounterVec
	sessionsCommitted prometheus.Counter
	commitRaces       prometheus.Counter
	receiptsSent      *prometheus.CounterVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		quotesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_quotes_rejected_total",
			Help: "Quotes rejected during validation, by reason",
		}, []string{"reason"}),
		otpFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_otp_failures_total",
			Help: "Failed OTP verifications, by reason",
		}, []string{"reason"}),
		lookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "directory_lookup_duration_seconds",
			Help:    "Time taken by beneficiary and payee directory lookups",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_session_transitions_total",
			Help: "Transfer session state changes",
		}, []string{"from", "to"}),
		sessionsCommitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "transfer_sessions_committed_total",
			Help: "Transfers committed to the ledger",
		}),
		commitRaces: factory.NewCounter(prometheus.CounterOpts{
			Name: "transfer_commit_races_total",
			Help: "Commits rejected because limits moved after verification",
		}),
		receiptsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_receipts_total",
			Help: "Receipt notifications handled by the worker, by outcome",
		}, []string{"outcome"}),
	}
}

func (c *Collector) ObserveQuoteRejected(reason string) {
	c.quotesRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveOTPFailure(reason string) {
	c.otpFailures.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveLookup(operation, outcome string, elapsed time.Duration) {
	c.lookupDuration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveTransition(from, to transfer.State) {
	c.transitions.WithLabelValues(string(from), string(to)).Inc()
	if to == transfer.StateCommitted {
		c.sessionsCommitted.Inc()
	}
}

func (c *Collector) ObserveCommitRace() {
	c.commitRaces.Inc()
}

func (c *Collector) ObserveReceipt(outcome string) {
	c.receiptsSent.WithLabelValues(outcome).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
