package core

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExpvarMetricsRecorderObserve(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()

	rec.Observe(ctx, "create_listing", true, 20*time.Millisecond)
	rec.Observe(ctx, "create_listing", true, 30*time.Millisecond)
	rec.Observe(ctx, "create_listing", false, 5*time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	snap := rec.Snapshot()
	if got := snap.DurationsMS["create_listing"]; got != 55 {
		t.Fatalf("durations = %v, want 55", got)
	}
	if got := snap.Results["create_listing"]["success"]; got != 2 {
		t.Fatalf("success count = %d, want 2", got)
	}
	if got := snap.Results["create_listing"]["error"]; got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}
	if rec.Name() == "" {
		t.Fatal("expected generated name")
	}
}

func TestServiceObservesMetrics(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	s := NewInMemoryService(WithMetricsRecorder(rec))
	ctx := context.Background()

	if _, _, err := s.CreateProperty(ctx, Property{Address: "1 Elm St"}); err != nil {
		t.Fatalf("create property: %v", err)
	}
	if _, _, err := s.CreateProperty(ctx, Property{}); err == nil {
		t.Fatal("expected validation error")
	}

	snap := rec.Snapshot()
	if got := snap.Results["create_property"]["success"]; got != 1 {
		t.Fatalf("success count = %d, want 1", got)
	}
	if got := snap.Results["create_property"]["error"]; got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}
}

func TestPrometheusMetricsRecorderObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(reg)
	ctx := context.Background()

	rec.Observe(ctx, "create_offer", true, 10*time.Millisecond)
	rec.Observe(ctx, "create_offer", false, 10*time.Millisecond)

	if got := testutil.ToFloat64(rec.operations.WithLabelValues("create_offer", "success")); got != 1 {
		t.Fatalf("success counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("create_offer", "error")); got != 1 {
		t.Fatalf("error counter = %v, want 1", got)
	}
}
