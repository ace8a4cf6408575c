package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestNewOrderMetrics_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetricsWithRegisterer(reg)

	m.RecordOrderCreated()
	m.RecordOrderFailed("payment_failed")
	m.RecordStatusTransition("pending", "confirmed")
	m.RecordCompensation("release", true)
	m.RecordNotification(false)
	m.RecordCreateDuration(10 * time.Millisecond)
	m.RecordStepDuration("reserve", time.Millisecond)
	m.InFlightStarted()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) != 8 {
		t.Fatalf("expected 8 metric families, got %d", len(families))
	}
}

func TestNewOrderMetrics_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewOrderMetricsWithRegisterer(reg)
	second := NewOrderMetricsWithRegisterer(reg)

	first.RecordOrderCreated()
	second.RecordOrderCreated()

	if got := testutil.ToFloat64(first.ordersCreated); got != 2 {
		t.Fatalf("expected shared counter value 2, got %v", got)
	}
}

func TestRecordOrderFailed(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordOrderFailed("payment_failed")
	m.RecordOrderFailed("payment_failed")
	m.RecordOrderFailed("inventory")

	if got := testutil.ToFloat64(m.ordersFailed.WithLabelValues("payment_failed")); got != 2 {
		t.Fatalf("expected 2 payment failures, got %v", got)
	}
	if got := testutil.ToFloat64(m.ordersFailed.WithLabelValues("inventory")); got != 1 {
		t.Fatalf("expected 1 inventory failure, got %v", got)
	}
}

func TestRecordCompensation(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordCompensation("refund", true)
	m.RecordCompensation("refund", false)
	m.RecordCompensation("release", false)

	if got := testutil.ToFloat64(m.compensations.WithLabelValues("refund", "ok")); got != 1 {
		t.Fatalf("expected 1 successful refund, got %v", got)
	}
	if got := testutil.ToFloat64(m.compensations.WithLabelValues("release", "error")); got != 1 {
		t.Fatalf("expected 1 failed release, got %v", got)
	}
}

func TestInFlightGauge(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.InFlightStarted()
	m.InFlightStarted()
	m.InFlightFinished()

	if got := testutil.ToFloat64(m.inFlight); got != 1 {
		t.Fatalf("expected 1 in flight, got %v", got)
	}
}

func TestRecordStepDuration(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordStepDuration("charge", 20*time.Millisecond)
	m.RecordStepDuration("charge", 30*time.Millisecond)

	var metric dto.Metric
	observer := m.stepDuration.WithLabelValues("charge")
	if err := observer.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if got := metric.GetHistogram().GetSampleCount(); got != 2 {
		t.Fatalf("expected 2 samples, got %d", got)
	}
	if got := metric.GetHistogram().GetSampleSum(); got < 0.049 || got > 0.051 {
		t.Fatalf("expected sum ~0.05, got %v", got)
	}
}
