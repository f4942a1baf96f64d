package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Collector holds the ledger's Prometheus instruments on a private registry.
type Collector struct {
	registry                *prometheus.Registry
	operations              *prometheus.CounterVec
	operationDuration       *prometheus.HistogramVec
	cacheLookups            *prometheus.CounterVec
	cacheInvalidationFailed prometheus.Counter
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger operations by name and outcome",
		}, []string{"operation", "outcome"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Time taken by ledger operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_cache_lookups_total",
			Help: "Read-through cache lookups by cache and result",
		}, []string{"cache", "result"}),
		cacheInvalidationFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_cache_invalidation_failures_total",
			Help: "Cache invalidations that could not reach the cache",
		}),
	}
}

// ObserveOperation records one finished operation.
func (c *Collector) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	c.operations.WithLabelValues(operation, outcome).Inc()
	c.operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (c *Collector) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(cache, result).Inc()
}

func (c *Collector) CacheInvalidationFailed() {
	c.cacheInvalidationFailed.Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
