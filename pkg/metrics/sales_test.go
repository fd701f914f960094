package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestSalesMetricsExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSalesMetrics(reg)

	m.IncCreated("counter")
	m.IncCreated("counter")
	m.IncCreated("online")
	m.IncDiscountClamped()
	m.ObserveNotification("materials", OutcomeFailed, 120*time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "bleupos_sales_created_total", "channel", "counter")
	require.NoError(t, err)
	require.Equal(t, float64(2), got)

	got, err = fetchCounterValue(mfs, "bleupos_inventory_notifications_total", "outcome", OutcomeFailed)
	require.NoError(t, err)
	require.Equal(t, float64(1), got)

	sum, err := fetchHistogramSum(mfs, "bleupos_inventory_notification_duration_seconds", "target", "materials")
	require.NoError(t, err)
	require.InDelta(t, 0.12, sum, 0.0001)

	clamped := findMetricFamily(mfs, "bleupos_sales_discount_clamped_total")
	require.NotNil(t, clamped)
	require.Equal(t, float64(1), clamped.GetMetric()[0].GetCounter().GetValue())
}
