package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	toolDuration  *prom.HistogramVec
	enginePasses  prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "texbuilder",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "texbuilder",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.toolDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "texbuilder",
			Name:      "tool_duration_seconds",
			Help:      "Duration of individual external tool invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"tool", "result"})
		pr.enginePasses = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "texbuilder",
			Name:      "engine_passes_per_build",
			Help:      "Number of typesetting engine passes per build",
			Buckets:   []float64{1, 2, 3, 4, 5},
		})
		reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.toolDuration, pr.enginePasses)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveToolDuration(tool string, d time.Duration, success bool) {
	if p == nil || p.toolDuration == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.toolDuration.WithLabelValues(tool, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveEnginePasses(n int) {
	if p == nil || p.enginePasses == nil {
		return
	}
	p.enginePasses.Observe(float64(n))
}
