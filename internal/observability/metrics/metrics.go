package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics exposes request-level prometheus instruments.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers HTTP instruments on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tabletab_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tabletab_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	prometheus.MustRegister(m.requests, m.duration)
	return m
}

// Metrics exposes domain-level prometheus instruments.
type Metrics struct {
	ordersOpened    prometheus.Counter
	linesAdded      prometheus.Counter
	billsSettled    *prometheus.CounterVec
	pointsRedeemed  prometheus.Counter
	pointsEarned    prometheus.Counter
	settlementFails *prometheus.CounterVec
}

// New registers domain instruments on the default registry.
func New() *Metrics {
	m := &Metrics{
		ordersOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabletab_orders_opened_total",
			Help: "Orders opened against tables.",
		}),
		linesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabletab_order_lines_added_total",
			Help: "Order lines appended to open orders.",
		}),
		billsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tabletab_bills_settled_total",
			Help: "Bills settled by payment method.",
		}, []string{"payment_method"}),
		pointsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabletab_points_redeemed_total",
			Help: "Loyalty points redeemed across settlements.",
		}),
		pointsEarned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabletab_points_earned_total",
			Help: "Loyalty points earned across settlements.",
		}),
		settlementFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tabletab_settlement_failures_total",
			Help: "Settlement attempts rejected, by error code.",
		}, []string{"code"}),
	}
	prometheus.MustRegister(
		m.ordersOpened,
		m.linesAdded,
		m.billsSettled,
		m.pointsRedeemed,
		m.pointsEarned,
		m.settlementFails,
	)
	return m
}

func (m *Metrics) OrderOpened() {
	if m == nil {
		return
	}
	m.ordersOpened.Inc()
}

func (m *Metrics) LinesAdded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.linesAdded.Add(float64(n))
}

func (m *Metrics) BillSettled(paymentMethod string) {
	if m == nil {
		return
	}
	m.billsSettled.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

func (m *Metrics) PointsRedeemed(points int64) {
	if m == nil || points <= 0 {
		return
	}
	m.pointsRedeemed.Add(float64(points))
}

func (m *Metrics) PointsEarned(points int64) {
	if m == nil || points <= 0 {
		return
	}
	m.pointsEarned.Add(float64(points))
}

func (m *Metrics) SettlementFailed(code string) {
	if m == nil {
		return
	}
	m.settlementFails.WithLabelValues(normalizeLabel(code)).Inc()
}

// GinMiddleware records request counts and latencies.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

func normalizeLabel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "unknown"
	}
	return value
}
