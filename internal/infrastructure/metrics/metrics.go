package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of the billing service
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	taskRuns        *prometheus.CounterVec
	lockContention  prometheus.Counter
}

// New creates the collectors and registers them on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "billing_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "billing_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		taskRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "billing_cron_task_runs_total",
			Help: "Cron task executions by task key and status.",
		}, []string{"task", "status"}),
		lockContention: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billing_cron_lock_contention_total",
			Help: "Cron invocations skipped because the company lock was held.",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.taskRuns,
		m.lockContention,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// TaskRun counts one cron task execution
func (m *Metrics) TaskRun(key, status string) {
	m.taskRuns.WithLabelValues(key, status).Inc()
}

// LockContention counts a cron invocation that found the lock held
func (m *Metrics) LockContention() {
	m.lockContention.Inc()
}

// Middleware records every request by its route template so that path
// parameters do not blow up label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
