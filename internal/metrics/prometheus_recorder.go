package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pagesRendered prom.Counter
	pagesSkipped  prom.Counter
	brokenLinks   prom.Counter
	rebuilds      *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "coursegen",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "coursegen",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "coursegen",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pagesRendered: prom.NewCounter(prom.CounterOpts{
			Namespace: "coursegen",
			Name:      "pages_rendered_total",
			Help:      "Pages rendered to HTML",
		}),
		pagesSkipped: prom.NewCounter(prom.CounterOpts{
			Namespace: "coursegen",
			Name:      "pages_skipped_total",
			Help:      "Pages skipped by incremental builds (unchanged hash)",
		}),
		brokenLinks: prom.NewCounter(prom.CounterOpts{
			Namespace: "coursegen",
			Name:      "broken_links_total",
			Help:      "Broken internal links found during verification",
		}),
		rebuilds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "coursegen",
			Name:      "rebuilds_total",
			Help:      "Preview rebuilds by trigger",
		}, []string{"trigger"}),
	}
	reg.MustRegister(
		pr.stageDuration, pr.buildDuration, pr.buildOutcome,
		pr.pagesRendered, pr.pagesSkipped, pr.brokenLinks, pr.rebuilds,
	)
	return pr
}

// Handler exposes the registry for a /metrics endpoint.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddPagesRendered(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pagesRendered.Add(float64(n))
}

func (p *PrometheusRecorder) AddPagesSkipped(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pagesSkipped.Add(float64(n))
}

func (p *PrometheusRecorder) AddBrokenLinks(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.brokenLinks.Add(float64(n))
}

func (p *PrometheusRecorder) IncRebuild(trigger string) {
	if p == nil {
		return
	}
	p.rebuilds.WithLabelValues(trigger).Inc()
}
