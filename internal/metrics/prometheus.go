package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder on top of a prometheus registry.
type PrometheusRecorder struct {
	builds        *prometheus.CounterVec
	buildSeconds  prometheus.Histogram
	buildDocs     prometheus.Gauge
	pagesWritten  prometheus.Gauge
	indexCycles   prometheus.Counter
	indexSeconds  prometheus.Histogram
	searches      prometheus.Counter
	searchSeconds prometheus.Histogram
	watchEvents   prometheus.Counter
}

// NewPrometheusRecorder registers the collectors on reg and returns the
// recorder. Pass prometheus.NewRegistry() to keep the metrics isolated.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lightkb_builds_total",
			Help: "Completed site builds by status.",
		}, []string{"status"}),
		buildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lightkb_build_duration_seconds",
			Help:    "Wall time of full site builds.",
			Buckets: prometheus.DefBuckets,
		}),
		buildDocs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lightkb_documents",
			Help: "Documents loaded by the most recent build.",
		}),
		pagesWritten: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lightkb_pages_written",
			Help: "HTML pages written by the most recent build.",
		}),
		indexCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lightkb_index_cycles_total",
			Help: "Completed reindex passes.",
		}),
		indexSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lightkb_index_cycle_duration_seconds",
			Help:    "Wall time of reindex passes.",
			Buckets: prometheus.DefBuckets,
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lightkb_searches_total",
			Help: "Search queries served.",
		}),
		searchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lightkb_search_duration_seconds",
			Help:    "Search query latency.",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		}),
		watchEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lightkb_watch_events_total",
			Help: "Relevant filesystem events observed by the watcher.",
		}),
	}

	reg.MustRegister(
		r.builds, r.buildSeconds, r.buildDocs, r.pagesWritten,
		r.indexCycles, r.indexSeconds,
		r.searches, r.searchSeconds,
		r.watchEvents,
	)
	return r
}

func (r *PrometheusRecorder) RecordBuild(status string, duration time.Duration, documents, written int) {
	r.builds.WithLabelValues(status).Inc()
	r.buildSeconds.Observe(duration.Seconds())
	r.buildDocs.Set(float64(documents))
	r.pagesWritten.Set(float64(written))
}

func (r *PrometheusRecorder) RecordIndexCycle(duration time.Duration, documents int) {
	r.indexCycles.Inc()
	r.indexSeconds.Observe(duration.Seconds())
}

func (r *PrometheusRecorder) RecordSearch(duration time.Duration, results int) {
	r.searches.Inc()
	r.searchSeconds.Observe(duration.Seconds())
}

func (r *PrometheusRecorder) RecordWatchEvent() {
	r.watchEvents.Inc()
}

var _ Recorder = (*PrometheusRecorder)(nil)
