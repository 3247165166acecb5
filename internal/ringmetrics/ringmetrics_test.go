package ringmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRecorder_RegistersAndCounts(t *testing.T) {
	r := New("test")
	registry := prometheus.NewRegistry()
	if err := r.Register(registry); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	r.ObserveReserve(true)
	r.ObserveReserve(false)
	r.ObserveCommit(2)
	r.ObservePop(true)
	r.ObserveDepth(7)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	metrics := map[string][]*dto.Metric{}
	for _, fam := range families {
		metrics[fam.GetName()] = fam.GetMetric()
	}

	if len(metrics["disruptor_reserve_total"]) != 2 {
		t.Fatalf("expected 2 reserve label combinations, got %d", len(metrics["disruptor_reserve_total"]))
	}
	if got := metrics["disruptor_commit_total"][0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected commit counter 2, got %v", got)
	}
	if got := metrics["disruptor_depth"][0].GetGauge().GetValue(); got != 7 {
		t.Fatalf("expected depth gauge 7, got %v", got)
	}
}
