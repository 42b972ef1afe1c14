package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_IsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("render", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome("success")
	r.AddPagesRendered(3)
	r.AddPagesSkipped(1)
	r.AddBrokenLinks(2)
	r.IncRebuild("watch")
}

func TestPrometheusRecorder_CountsOutcomes(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncBuildOutcome("success")
	r.IncBuildOutcome("success")
	r.IncBuildOutcome("failed")

	require.Equal(t, float64(2), testutil.ToFloat64(r.buildOutcome.WithLabelValues("success")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.buildOutcome.WithLabelValues("failed")))
}

func TestPrometheusRecorder_PageCounters(t *testing.T) {
	r := NewPrometheusRecorder(nil)

	r.AddPagesRendered(5)
	r.AddPagesSkipped(2)
	r.AddPagesRendered(0)  // no-op
	r.AddPagesRendered(-1) // no-op

	require.Equal(t, float64(5), testutil.ToFloat64(r.pagesRendered))
	require.Equal(t, float64(2), testutil.ToFloat64(r.pagesSkipped))
}

func TestPrometheusRecorder_HandlerServesMetrics(t *testing.T) {
	r := NewPrometheusRecorder(nil)
	r.IncRebuild("watch")
	r.ObserveBuildDuration(250 * time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, 200, resp.StatusCode)
}
