package metrics // import "github.com/Xunop/e-library/internal/metrics"

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/log"
)

const (
	namespace = "elibrary"

	defaultRefreshInterval = time.Minute
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests by route and method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of catalog operations by result.",
		},
		[]string{"operation", "result"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, operationsTotal)
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(route, method string, status int, duration time.Duration) {
	requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveOperation records the outcome of a catalog operation.
func ObserveOperation(operation, result string) {
	operationsTotal.WithLabelValues(operation, result).Inc()
}

// Source is what the collector reads its gauges from.
type Source interface {
	Counts(ctx context.Context) (authors int, books int, err error)
	DBStats() sql.DBStats
}

// Collector exposes catalog sizes and database connection stats, refreshed periodically.
type Collector struct {
	source          Source
	refreshInterval time.Duration

	authors         prometheus.Gauge
	books           prometheus.Gauge
	openConnections prometheus.Gauge
	inUse           prometheus.Gauge
	waitCount       prometheus.Gauge
}

// NewCollector returns a collector reading from source, a non-positive refreshInterval means one minute.
func NewCollector(source Source, refreshInterval time.Duration) *Collector {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}

	newGauge := func(subsystem, name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &Collector{
		source:          source,
		refreshInterval: refreshInterval,
		authors:         newGauge("catalog", "authors", "Number of authors in the catalog."),
		books:           newGauge("catalog", "books", "Number of books in the catalog."),
		openConnections: newGauge("db", "open_connections", "Number of established database connections."),
		inUse:           newGauge("db", "in_use_connections", "Number of database connections currently in use."),
		waitCount:       newGauge("db", "wait_count", "Total number of waits for a database connection."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, g := range c.gauges() {
		ch <- g.Desc()
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, g := range c.gauges() {
		ch <- g
	}
}

func (c *Collector) gauges() []prometheus.Gauge {
	return []prometheus.Gauge{c.authors, c.books, c.openConnections, c.inUse, c.waitCount}
}

// Refresh reads the current values from the source.
func (c *Collector) Refresh(ctx context.Context) {
	authors, books, err := c.source.Counts(ctx)
	if err != nil {
		log.Warn("Unable to refresh catalog metrics", zap.Error(err))
	} else {
		c.authors.Set(float64(authors))
		c.books.Set(float64(books))
	}

	stats := c.source.DBStats()
	c.openConnections.Set(float64(stats.OpenConnections))
	c.inUse.Set(float64(stats.InUse))
	c.waitCount.Set(float64(stats.WaitCount))
}

// Run refreshes the gauges every refresh interval until ctx is done.
func (c *Collector) Run(ctx context.Context) {
	c.Refresh(ctx)

	ticker := time.NewTicker(c.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}
