// Package metrics exposes Prometheus instrumentation for the API server and
// worker. The collector owns its own registry so tests can create isolated
// instances.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	requestsTotal       *prometheus.CounterVec
	splitsComputed      *prometheus.CounterVec
	settlementsPlanned  prometheus.Counter
	plansComputed       prometheus.Counter
	computationDuration prometheus.Histogram
	budgetAlerts        *prometheus.CounterVec
	expensesRecorded    prometheus.Counter
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		requestsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "tripsplit_http_requests_total",
			Help: "HTTP requests by method, path pattern and status code",
		}, []string{"method", "path", "status"}),
		splitsComputed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "tripsplit_splits_computed_total",
			Help: "Split computations by policy",
		}, []string{"policy"}),
		settlementsPlanned: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "tripsplit_settlement_plans_total",
			Help: "Settlement plans computed",
		}),
		plansComputed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "tripsplit_budget_plans_total",
			Help: "Budget plans computed",
		}),
		computationDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "tripsplit_engine_computation_duration_seconds",
			Help:    "Time spent in engine computations",
			Buckets: prometheus.DefBuckets,
		}),
		budgetAlerts: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "tripsplit_budget_alerts_total",
			Help: "Budget threshold alerts raised by level",
		}, []string{"level"}),
		expensesRecorded: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "tripsplit_expenses_recorded_total",
			Help: "Expenses recorded through the API",
		}),
	}
}

func (c *Collector) RecordRequest(method, path string, status int) {
	c.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func (c *Collector) RecordSplit(policy string) {
	c.splitsComputed.WithLabelValues(policy).Inc()
}

func (c *Collector) RecordSettlementPlan(duration time.Duration) {
	c.settlementsPlanned.Inc()
	c.computationDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordBudgetPlan(duration time.Duration) {
	c.plansComputed.Inc()
	c.computationDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordBudgetAlert(level string) {
	c.budgetAlerts.WithLabelValues(level).Inc()
}

func (c *Collector) RecordExpense() {
	c.expensesRecorded.Inc()
}

// Handler returns the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
