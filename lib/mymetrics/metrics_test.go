package mymetrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.HandleFunc("/checkout-sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET")
	router.Handle("/metrics", Handler(reg))

	// when
	request, _ := http.NewRequest(http.MethodGet, "/checkout-sessions/abc", nil)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	// then
	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues("GET /checkout-sessions/{id}", "404")))

	request, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	response = httptest.NewRecorder()
	router.ServeHTTP(response, request)
	assert.Contains(t, response.Body.String(), "ucp_http_requests_total")
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.WebhookDelivered("order_placed", "ok")
	m.IdempotencyOutcome("replayed")
	m.IdempotencyOutcome("replayed")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhookDeliveries.WithLabelValues("order_placed", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.IdempotencyOutcomes.WithLabelValues("replayed")))
}

func TestCheckoutOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OrderPlaced("USD", 6100)
	m.OrderPlaced("USD", 0)
	m.CheckoutCanceled()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Checkouts.WithLabelValues("completed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Checkouts.WithLabelValues("canceled")))
	assert.Equal(t, float64(6100), testutil.ToFloat64(m.OrderRevenue.WithLabelValues("USD")))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.WebhookDelivered("order_placed", "ok")
		m.IdempotencyOutcome("executed")
		m.OrderPlaced("USD", 100)
		m.CheckoutCanceled()
	})
}
