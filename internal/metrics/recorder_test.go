package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestNoopRecorder_SafeOnZeroValue(t *testing.T) {
	var r NoopRecorder
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome(OutcomeSuccess)
	r.ObserveToolDuration("pdflatex", time.Second, true)
	r.ObserveEnginePasses(3)
}

func TestPrometheusRecorder_RegistersAndRecords(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveBuildDuration(2 * time.Second)
	r.IncBuildOutcome(OutcomeFailed)
	r.ObserveToolDuration("biber", 100*time.Millisecond, false)
	r.ObserveEnginePasses(2)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) != 4 {
		t.Errorf("expected 4 metric families, got %d", len(families))
	}
}

func TestPrometheusRecorder_NilReceiverSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome(OutcomeSuccess)
	r.ObserveToolDuration("pdflatex", time.Second, true)
	r.ObserveEnginePasses(1)
}
