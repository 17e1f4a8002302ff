package mymetrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ucp"

// Metrics are safe to use on a nil receiver, which records nothing.
type Metrics struct {
	Requests            *prometheus.CounterVec
	LatencyMS           *prometheus.HistogramVec
	WebhookDeliveries   *prometheus.CounterVec
	IdempotencyOutcomes *prometheus.CounterVec
	Checkouts           *prometheus.CounterVec
	OrderRevenue        *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		WebhookDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Outbound order webhook deliveries by event type and result.",
		}, []string{"event_type", "result"}),
		IdempotencyOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_requests_total",
			Help:      "Keyed requests by outcome: executed, replayed or conflict.",
		}, []string{"result"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout sessions that reached a terminal state, by outcome.",
		}, []string{"outcome"}),
		OrderRevenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_revenue_minor_units_total",
			Help:      "Grand total of placed orders in minor currency units.",
		}, []string{"currency"}),
	}

	reg.MustRegister(m.Requests, m.LatencyMS, m.WebhookDeliveries, m.IdempotencyOutcomes, m.Checkouts, m.OrderRevenue)

	return m
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) WebhookDelivered(eventType string, result string) {
	if m == nil {
		return
	}
	m.WebhookDeliveries.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) IdempotencyOutcome(result string) {
	if m == nil {
		return
	}
	m.IdempotencyOutcomes.WithLabelValues(result).Inc()
}

func (m *Metrics) OrderPlaced(currency string, totalAmount int64) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues("completed").Inc()
	if totalAmount > 0 {
		m.OrderRevenue.WithLabelValues(currency).Add(float64(totalAmount))
	}
}

func (m *Metrics) CheckoutCanceled() {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues("canceled").Inc()
}

// Middleware labels requests with the route template, keeping cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		handler := "unknown"
		route := mux.CurrentRoute(r)
		if route != nil {
			tmpl, err := route.GetPathTemplate()
			if err == nil {
				handler = r.Method + " " + tmpl
			}
		}

		m.Requests.WithLabelValues(handler, strconv.Itoa(rec.status)).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
