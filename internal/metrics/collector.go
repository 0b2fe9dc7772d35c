// Package metrics は試着サービスの Prometheus 指標を収集します。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Collector は指標の登録と記録を担当します。グローバルレジストリは使いません。
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	tryOnRequestsTotal *prometheus.CounterVec
	viewsTotal         *prometheus.CounterVec
	viewDuration       *prometheus.HistogramVec
	storedViewsTotal   *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector は namespace 付きの指標を専用レジストリに登録して返します。
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		logger:   logger.With(zap.String("component", "metrics")),
	}

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.tryOnRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tryon_requests_total",
			Help:      "Total number of try-on generation requests by outcome",
		},
		[]string{"outcome"},
	)

	c.viewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_generations_total",
			Help:      "Total number of per-angle view generations",
		},
		[]string{"angle", "status"},
	)

	c.viewDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_generation_duration_seconds",
			Help:      "Per-angle provider call duration in seconds",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"angle"},
	)

	c.storedViewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_views_total",
			Help:      "Total number of generated views written to object storage",
		},
		[]string{"status"},
	)

	c.registry.MustRegister(
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.tryOnRequestsTotal,
		c.viewsTotal,
		c.viewDuration,
		c.storedViewsTotal,
	)

	c.logger.Debug("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// Handler は /metrics 用のハンドラーを返します。
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry はテストや追加の登録のためにレジストリを返します。
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordHTTPRequest は HTTP リクエストの件数と処理時間を記録します。
func (c *Collector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTryOn は1リクエストの結果（success, partial, failed, invalid）を記録します。
func (c *Collector) RecordTryOn(outcome string) {
	c.tryOnRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordView は1視点分の生成結果を記録します。
func (c *Collector) RecordView(angle string, ok bool, duration time.Duration) {
	status := "success"
	if !ok {
		status = "error"
	}
	c.viewsTotal.WithLabelValues(angle, status).Inc()
	c.viewDuration.WithLabelValues(angle).Observe(duration.Seconds())
}

// RecordStoredView はストレージへの保存結果を記録します。
func (c *Collector) RecordStoredView(ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	c.storedViewsTotal.WithLabelValues(status).Inc()
}
