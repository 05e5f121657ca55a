package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of checkout runs.
type CheckoutMetrics struct {
	duration        *prometheus.HistogramVec
	success         *prometheus.CounterVec
	failure         *prometheus.CounterVec
	paymentsCreated prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"processor"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_success",
		Help: "Checkout runs that settled every cart entry.",
	}, []string{"processor"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failure",
		Help: "Checkout runs that halted before settling every cart entry.",
	}, []string{"processor"})
	paymentsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_payments_created",
		Help: "Payment records created by checkout runs.",
	})
	reg.MustRegister(duration, success, failure, paymentsCreated)
	return &CheckoutMetrics{
		duration:        duration,
		success:         success,
		failure:         failure,
		paymentsCreated: paymentsCreated,
	}
}

// ObserveDuration records the duration of a checkout run.
func (c *CheckoutMetrics) ObserveDuration(processor string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(processor)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the given processor.
func (c *CheckoutMetrics) IncSuccess(processor string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(processor)).Inc()
}

// IncFailure increments the failure counter for the given processor.
func (c *CheckoutMetrics) IncFailure(processor string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(processor)).Inc()
}

// AddPaymentsCreated adds the number of payment records settled by a run.
func (c *CheckoutMetrics) AddPaymentsCreated(n int) {
	if c == nil || c.paymentsCreated == nil || n <= 0 {
		return
	}
	c.paymentsCreated.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
