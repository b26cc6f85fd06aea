package metrics

import "time"

// BuildOutcomeLabel enumerates final build outcomes for counters.
type BuildOutcomeLabel string

const (
	OutcomeSuccess BuildOutcomeLabel = "success"
	OutcomeFailed  BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for build and tool metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe for zero-value receivers (allowing optional injection).
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	ObserveToolDuration(tool string, d time.Duration, success bool)
	ObserveEnginePasses(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)              {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)               {}
func (NoopRecorder) ObserveToolDuration(string, time.Duration, bool) {}
func (NoopRecorder) ObserveEnginePasses(int)                         {}
