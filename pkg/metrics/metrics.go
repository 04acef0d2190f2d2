// Package metrics 提供基于Prometheus的指标收集
//
// 指标设计（围绕购物车/结算这条核心链路）：
// - 购物车操作：add/remove/set_quantity/clear 各自的计数
// - 对账（reconcile）：耗时分布、失败数、过期响应丢弃数
// - 结算：步骤推进/回退计数、订单确认成功/失败计数
// - 熔断器：状态与请求结果
// - 消息队列：订单事件发布计数
//
// 指标通过 /metrics 端点暴露，由Prometheus Server周期抓取。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（路由模板）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// 购物车指标

	// CartOperationsTotal 购物车操作总数（Counter）
	// 标签：op（add/remove/set_quantity/clear）
	CartOperationsTotal *prometheus.CounterVec

	// 对账指标

	// ReconcileDuration 对账耗时（Histogram）
	ReconcileDuration prometheus.Histogram

	// ReconcileFailuresTotal 对账失败总数（Counter）
	ReconcileFailuresTotal prometheus.Counter

	// ReconcileStaleDropsTotal 过期对账响应丢弃总数（Counter）
	// 乱序网络响应被序号守卫拦截的次数
	ReconcileStaleDropsTotal prometheus.Counter

	// 结算指标

	// CheckoutTransitionsTotal 结算步骤流转总数（Counter）
	// 标签：direction（advance/retreat）、result（ok/rejected）
	CheckoutTransitionsTotal *prometheus.CounterVec

	// OrdersConfirmedTotal 订单确认成功总数（Counter）
	OrdersConfirmedTotal prometheus.Counter

	// OrdersFailedTotal 订单确认失败总数（Counter）
	OrdersFailedTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次，使用promauto自动注册到默认Registry
func InitMetrics() {
	// 防止重复初始化（集成测试会多次构建应用）
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libratech_http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "libratech_http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	CartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libratech_cart_operations_total",
			Help: "购物车操作总数",
		},
		[]string{"op"},
	)

	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "libratech_reconcile_duration_seconds",
			Help:    "购物车对账耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	ReconcileFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "libratech_reconcile_failures_total",
			Help: "购物车对账失败总数",
		},
	)

	ReconcileStaleDropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "libratech_reconcile_stale_drops_total",
			Help: "被序号守卫丢弃的过期对账响应总数",
		},
	)

	CheckoutTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libratech_checkout_transitions_total",
			Help: "结算步骤流转总数",
		},
		[]string{"direction", "result"},
	)

	OrdersConfirmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "libratech_orders_confirmed_total",
			Help: "订单确认成功总数",
		},
	)

	OrdersFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "libratech_orders_failed_total",
			Help: "订单确认失败总数",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "libratech_circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libratech_circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libratech_messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)
}

// =========================================
// 辅助函数（调用方无需判空，未初始化时为no-op）
// =========================================

// IncCounter 计数器+1
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 带标签的计数器+1
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// SetGaugeVec 设置带标签的仪表值
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

// ObserveHistogram 记录直方图观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 记录带标签的直方图观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram != nil {
		histogram.With(labels).Observe(value)
	}
}
