// Package metrics exports ledger activity as Prometheus collectors.
// A Collector is both a ledger.Sink and a ledger.Observer, so it can be
// attached with ledger.WithSink and ledger.WithObserver.
package metrics

import (
	"errors"
	"math/big"
	"net/http"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitfsorg/libvibe-go/ledger"
)

// Call results.
const (
	ResultOK           = "ok"
	ResultPolicy       = "policy"
	ResultUnauthorized = "unauthorized"
	ResultInvalid      = "invalid"
	ResultFunds        = "insufficient_funds"
	ResultNothing      = "nothing_to_claim"
	ResultError        = "error"
)

// Collector counts ledger calls and committed events.
type Collector struct {
	registry *prometheus.Registry

	calls        *prometheus.CounterVec
	transfers    prometheus.Counter
	volume       prometheus.Counter
	fees         *prometheus.CounterVec
	claims       prometheus.Counter
	claimedUnits prometheus.Counter
	adminChanges *prometheus.CounterVec
}

var (
	_ ledger.Sink     = (*Collector)(nil)
	_ ledger.Observer = (*Collector)(nil)
)

// NewCollector creates a collector registered on its own registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "vibe"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.calls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "calls_total",
			Help:      "Total number of mutating ledger calls by operation and result",
		},
		[]string{"op", "result"},
	)

	c.transfers = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "transfers_total",
		Help:      "Total number of committed transfers",
	})

	c.volume = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "transferred_units_total",
		Help:      "Gross base units moved by committed transfers",
	})

	c.fees = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "fees_total",
			Help:      "Fee base units charged, by destination",
		},
		[]string{"kind"},
	)

	c.claims = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "claims_total",
		Help:      "Total number of dividend claims",
	})

	c.claimedUnits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "claimed_units_total",
		Help:      "Base units paid out by dividend claims",
	})

	c.adminChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "admin_changes_total",
			Help:      "Committed administrative changes by event",
		},
		[]string{"event"},
	)

	c.registry.MustRegister(
		c.calls,
		c.transfers,
		c.volume,
		c.fees,
		c.claims,
		c.claimedUnits,
		c.adminChanges,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WatchLedger registers gauges that read l on every scrape.
func (c *Collector) WatchLedger(namespace string, l *ledger.Ledger) {
	if namespace == "" {
		namespace = "vibe"
	}
	c.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "holders",
			Help:      "Accounts currently eligible for reflection",
		}, func() float64 { return float64(l.HolderCount()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "pending_reflection_units",
			Help:      "Reflection fees waiting for eligible supply",
		}, func() float64 { return toFloat(l.UnclaimedPool()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "custody_units",
			Help:      "Reflection fees held in custody and not yet claimed",
		}, func() float64 { return toFloat(l.BalanceOf(l.Custody())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "height",
			Help:      "Number of committed mutating calls",
		}, func() float64 { return float64(l.Height()) }),
	)
}

// ObserveCall implements ledger.Observer.
func (c *Collector) ObserveCall(op string, err error) {
	c.calls.WithLabelValues(op, Result(err)).Inc()
}

// Emit implements ledger.Sink.
func (c *Collector) Emit(e ledger.Event) {
	switch ev := e.(type) {
	case ledger.TransferEvent:
		c.transfers.Inc()
		c.volume.Add(toFloat(&ev.Amount))

	case ledger.FeesDistributedEvent:
		c.fees.WithLabelValues("burn").Add(toFloat(&ev.Burn))
		c.fees.WithLabelValues("treasury").Add(toFloat(&ev.Treasury))
		c.fees.WithLabelValues("reflect").Add(toFloat(&ev.Reflect))

	case ledger.DividendsClaimedEvent:
		c.claims.Inc()
		c.claimedUnits.Add(toFloat(&ev.Amount))

	case ledger.ApprovalEvent:

	default:
		c.adminChanges.WithLabelValues(string(e.Kind())).Inc()
	}
}

// Result maps a ledger error to its metric label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, ledger.ErrPolicyRejection):
		return ResultPolicy
	case errors.Is(err, ledger.ErrAuthorization):
		return ResultUnauthorized
	case errors.Is(err, ledger.ErrNothingToClaim):
		return ResultNothing
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return ResultFunds
	case errors.Is(err, ledger.ErrValidation):
		return ResultInvalid
	default:
		return ResultError
	}
}

// toFloat is lossy above 2^53, which is acceptable for counters.
func toFloat(v *uint256.Int) float64 {
	if v == nil {
		return 0
	}
	if v.IsUint64() {
		return float64(v.Uint64())
	}
	f, _ := new(big.Float).SetInt(v.ToBig()).Float64()
	return f
}
