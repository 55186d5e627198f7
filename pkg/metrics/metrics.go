// Package metrics Prometheus指标
//
// 每个Metrics实例持有独立的Registry，测试中可以重复创建而不会重复注册。
// /metrics端点由Handler()暴露。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coursebook"

// Metrics 应用指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal      *prometheus.CounterVec   // method, path, status
	HTTPRequestDuration    *prometheus.HistogramVec // method, path
	HTTPRequestsInProgress prometheus.Gauge

	// 业务
	ReviewsTotal        *prometheus.CounterVec // action: created/updated/deleted
	VotesTotal          *prometheus.CounterVec // action: insert/delete/flip/conflict
	TextbooksAddedTotal *prometheus.CounterVec // outcome: linked_by_isbn/linked_existing/created
	CacheRequestsTotal  *prometheus.CounterVec // cache, result: hit/miss/error

	// 基础设施
	CircuitBreakerState    *prometheus.GaugeVec   // name；0=CLOSED 1=OPEN 2=HALF_OPEN
	CircuitBreakerRequests *prometheus.CounterVec // name, result: success/failure/rejected
	SagaExecutionsTotal    *prometheus.CounterVec // saga, result: success/failure
	SagaCompensationErrors *prometheus.CounterVec // saga, step
	MessagesPublishedTotal *prometheus.CounterVec // routing_key, result
	MessagesConsumedTotal  *prometheus.CounterVec // routing_key, result
}

// New 创建并注册全部指标（含Go运行时与进程指标）
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求耗时（秒）",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"method", "path"}),

		HTTPRequestsInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "正在处理的HTTP请求数",
		}),

		ReviewsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "评价写操作总数",
		}, []string{"action"}),

		VotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "投票操作总数",
		}, []string{"action"}),

		TextbooksAddedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "textbooks_added_total",
			Help:      "新增/关联教材总数",
		}, []string{"outcome"}),

		CacheRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "缓存读取总数",
		}, []string{"cache", "result"}),

		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		}, []string{"name"}),

		CircuitBreakerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "经过熔断器的请求总数",
		}, []string{"name", "result"}),

		SagaExecutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saga_executions_total",
			Help:      "Saga执行总数",
		}, []string{"saga", "result"}),

		SagaCompensationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saga_compensation_errors_total",
			Help:      "Saga补偿失败总数（需人工介入）",
		}, []string{"saga", "step"}),

		MessagesPublishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "消息发布总数",
		}, []string{"routing_key", "result"}),

		MessagesConsumedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "消息消费总数",
		}, []string{"routing_key", "result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInProgress,
		m.ReviewsTotal,
		m.VotesTotal,
		m.TextbooksAddedTotal,
		m.CacheRequestsTotal,
		m.CircuitBreakerState,
		m.CircuitBreakerRequests,
		m.SagaExecutionsTotal,
		m.SagaCompensationErrors,
		m.MessagesPublishedTotal,
		m.MessagesConsumedTotal,
	)
	return m
}

// Registry 供测试或额外的Collector注册使用
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP 记录一次HTTP请求
// path使用路由模板（/api/v1/reviews/:id），避免标签基数爆炸
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// CacheResult 记录缓存读取结果
func (m *Metrics) CacheResult(cache, result string) {
	m.CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// BreakerState 记录熔断器状态
func (m *Metrics) BreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// BreakerRequest 记录熔断器请求结果
func (m *Metrics) BreakerRequest(name, result string) {
	m.CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// SagaResult 记录Saga执行结果
func (m *Metrics) SagaResult(saga string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.SagaExecutionsTotal.WithLabelValues(saga, result).Inc()
}

// Published 记录消息发布结果
func (m *Metrics) Published(routingKey string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
}

// Consumed 记录消息消费结果
func (m *Metrics) Consumed(routingKey string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.MessagesConsumedTotal.WithLabelValues(routingKey, result).Inc()
}
