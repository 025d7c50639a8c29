// Package metrics 定义推荐服务的 Prometheus 指标。
//
// 指标通过 promauto 注册到默认 Registry，由 server 的 /metrics 暴露。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 推荐请求
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playful_recommend_requests_total",
			Help: "Total number of recommendation requests by policy and outcome",
		},
		[]string{"policy", "outcome"}, // policy: none/single/groups, outcome: ok/error
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playful_recommend_duration_seconds",
			Help:    "Duration of recommendation composition in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"policy"},
	)

	RecommendItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "playful_recommend_items",
			Help:    "Number of items returned per recommendation",
			Buckets: []float64{0, 1, 2, 4, 8, 12, 16},
		},
	)

	SeedsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playful_seeds_skipped_total",
			Help: "Total number of owned seed items missing from the catalog",
		},
	)

	FilterErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playful_filter_errors_total",
			Help: "Total number of filter evaluations that failed and kept the candidate",
		},
		[]string{"filter"},
	)

	// 用户库存提供方（Steam Web API）
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playful_provider_requests_total",
			Help: "Total number of upstream provider calls",
		},
		[]string{"method", "outcome"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playful_provider_duration_seconds",
			Help:    "Duration of upstream provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	ProviderCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playful_provider_cache_hits_total",
			Help: "Total number of owned-items cache hits",
		},
	)

	ProviderCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playful_provider_cache_misses_total",
			Help: "Total number of owned-items cache misses",
		},
	)

	// 熔断器状态：0=closed, 1=half-open, 2=open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "playful_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playful_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playful_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// 启动时加载的目录规模
	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "playful_catalog_items",
			Help: "Number of items in the loaded catalog",
		},
	)
)

// ObserveRecommend 记录一次推荐组合。
func ObserveRecommend(policy string, start time.Time, items int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RecommendRequests.WithLabelValues(policy, outcome).Inc()
	RecommendDuration.WithLabelValues(policy).Observe(time.Since(start).Seconds())
	if err == nil {
		RecommendItems.Observe(float64(items))
	}
}

// ObserveProvider 记录一次上游调用。
func ObserveProvider(method string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ProviderRequests.WithLabelValues(method, outcome).Inc()
	ProviderDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
