package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bleupos"

// Notification outcomes recorded for inventory deductions.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// SalesMetrics tracks the sale write path and its downstream side effects.
type SalesMetrics struct {
	created       *prometheus.CounterVec
	discounted    prometheus.Counter
	notifications *prometheus.CounterVec
	notifyLatency *prometheus.HistogramVec
}

// NewSalesMetrics registers the sales metrics on the provided registerer.
func NewSalesMetrics(reg prometheus.Registerer) *SalesMetrics {
	if reg == nil {
		return &SalesMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_created_total",
		Help:      "Sales committed, by channel.",
	}, []string{"channel"})
	discounted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_discount_clamped_total",
		Help:      "Sales whose summed discounts were capped at the subtotal.",
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_notifications_total",
		Help:      "Inventory deduction notifications, by target and outcome.",
	}, []string{"target", "outcome"})
	notifyLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "inventory_notification_duration_seconds",
		Help:      "Latency of inventory deduction calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"target"})
	reg.MustRegister(created, discounted, notifications, notifyLatency)
	return &SalesMetrics{
		created:       created,
		discounted:    discounted,
		notifications: notifications,
		notifyLatency: notifyLatency,
	}
}

// IncCreated counts a committed sale for the channel (counter, online).
func (s *SalesMetrics) IncCreated(channel string) {
	if s == nil || s.created == nil {
		return
	}
	s.created.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncDiscountClamped counts a sale whose discounts exceeded its subtotal.
func (s *SalesMetrics) IncDiscountClamped() {
	if s == nil || s.discounted == nil {
		return
	}
	s.discounted.Inc()
}

// ObserveNotification records one inventory call.
func (s *SalesMetrics) ObserveNotification(target, outcome string, took time.Duration) {
	if s == nil || s.notifications == nil {
		return
	}
	s.notifications.WithLabelValues(normalizeLabel(target), normalizeLabel(outcome)).Inc()
	s.notifyLatency.WithLabelValues(normalizeLabel(target)).Observe(took.Seconds())
}
