package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ti/internal/infrastructure/metrics"
)

func TestMetrics_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.CheckoutCommitted("issue", 2, 5)
	m.CheckoutCommitted("issue", 1, 1)
	m.CheckoutRejected("issue", "insufficient_stock")
	m.ReceiptGenerated(true)
	m.ReceiptGenerated(false)
	m.ObserveRequest("POST", "/api/cart", 200, 15*time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "inventario_checkouts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "una serie por tipo")

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				values[f.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["inventario_checkouts_total"])
	assert.Equal(t, 6.0, values["inventario_checkout_units_total"])
	assert.Equal(t, 1.0, values["inventario_checkout_rejections_total"])
	assert.Equal(t, 2.0, values["inventario_receipts_total"])
	assert.Equal(t, 1.0, values["inventario_http_requests_total"])
}
