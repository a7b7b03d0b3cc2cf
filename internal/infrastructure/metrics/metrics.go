// Package metrics expone contadores Prometheus del libro de movimientos y de HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/inventario-ti/internal/application/inventory"
)

var _ inventory.Metrics = (*Metrics)(nil)

// Metrics colectores registrados en un Registerer.
type Metrics struct {
	checkouts      *prometheus.CounterVec
	checkoutUnits  *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	receipts       *prometheus.CounterVec
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// New crea y registra los colectores. reg nil usa prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		checkouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_checkouts_total",
				Help: "Checkouts confirmados por tipo (issue/return)",
			},
			[]string{"type"},
		),
		checkoutUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_checkout_units_total",
				Help: "Unidades movidas por checkouts confirmados",
			},
			[]string{"type"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_checkout_rejections_total",
				Help: "Checkouts rechazados por motivo",
			},
			[]string{"type", "reason"},
		),
		receipts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_receipts_total",
				Help: "Comprobantes PDF generados por resultado",
			},
			[]string{"result"},
		),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_http_requests_total",
				Help: "Peticiones HTTP por método, ruta y estado",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventario_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.checkouts, m.checkoutUnits, m.rejections, m.receipts, m.requestCounter, m.requestLatency)
	return m
}

// CheckoutCommitted cuenta un checkout confirmado y sus unidades.
func (m *Metrics) CheckoutCommitted(kind string, _ int, units int) {
	m.checkouts.WithLabelValues(kind).Inc()
	m.checkoutUnits.WithLabelValues(kind).Add(float64(units))
}

// CheckoutRejected cuenta un checkout rechazado.
func (m *Metrics) CheckoutRejected(kind, reason string) {
	m.rejections.WithLabelValues(kind, reason).Inc()
}

// ReceiptGenerated cuenta un intento de generar comprobante.
func (m *Metrics) ReceiptGenerated(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.receipts.WithLabelValues(result).Inc()
}

// ObserveRequest registra una petición HTTP terminada.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
