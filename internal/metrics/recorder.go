// Package metrics provides build and index observability.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks and costs
// nothing when disabled. NewPrometheusRecorder activates real collection;
// the caller owns the registry and decides how to expose it.
package metrics

import "time"

// Recorder defines all metrics operations.
type Recorder interface {
	// RecordBuild records one full build: outcome, wall time, documents
	// loaded and pages written.
	RecordBuild(status string, duration time.Duration, documents, written int)

	// RecordIndexCycle records one reindex pass over the document list.
	RecordIndexCycle(duration time.Duration, documents int)

	// RecordSearch records one query against the search index.
	RecordSearch(duration time.Duration, results int)

	// RecordWatchEvent counts a relevant filesystem event.
	RecordWatchEvent()
}

// NoopRecorder is the default Recorder; every method does nothing.
type NoopRecorder struct{}

func (NoopRecorder) RecordBuild(string, time.Duration, int, int) {}
func (NoopRecorder) RecordIndexCycle(time.Duration, int)         {}
func (NoopRecorder) RecordSearch(time.Duration, int)             {}
func (NoopRecorder) RecordWatchEvent()                           {}

var _ Recorder = NoopRecorder{}
