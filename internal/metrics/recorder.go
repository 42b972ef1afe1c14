// Package metrics defines observability hooks for build and serve operations.
package metrics

import "time"

// Recorder defines observability hooks for build and stage metrics.
// Implementations may forward to Prometheus or stay no-op; injection is
// optional throughout the pipeline.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // success | warning | failed
	AddPagesRendered(n int)
	AddPagesSkipped(n int)
	AddBrokenLinks(n int)
	IncRebuild(trigger string) // watch | resync | manual
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) AddPagesRendered(int)                       {}
func (NoopRecorder) AddPagesSkipped(int)                        {}
func (NoopRecorder) AddBrokenLinks(int)                         {}
func (NoopRecorder) IncRebuild(string)                          {}
