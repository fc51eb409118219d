package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus instrument this repository exports.
//
// Thread Safety: safe for concurrent use; Prometheus instruments are.
type Metrics struct {
	// PassesTotal counts completed layout runs by outcome ("ok", "error").
	PassesTotal *prometheus.CounterVec

	// LayoutDurationSeconds measures total Build() wall time.
	LayoutDurationSeconds prometheus.Histogram

	// ComponentDurationSeconds measures per-component time within Build
	// (classify, layer, materialize, straighten, route, verticalize).
	ComponentDurationSeconds *prometheus.HistogramVec

	// BlockCount is a gauge of the most recently laid-out pass's block
	// count, by kind ("mir", "lir").
	BlockCount *prometheus.GaugeVec

	reg *prometheus.Registry
}

// New creates and registers every metric against a fresh registry (never
// the global default, so multiple Metrics instances can coexist in tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,

		PassesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "iongraph",
				Subsystem: "layout",
				Name:      "passes_total",
				Help:      "Total layout passes run, by outcome",
			},
			[]string{"outcome"},
		),

		LayoutDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "iongraph",
				Subsystem: "layout",
				Name:      "duration_seconds",
				Help:      "Total wall time of a single layout.Build call",
				Buckets:   prometheus.DefBuckets,
			},
		),

		ComponentDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "iongraph",
				Subsystem: "layout",
				Name:      "component_duration_seconds",
				Help:      "Wall time of one pipeline component within a layout run",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"component"},
		),

		BlockCount: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "iongraph",
				Subsystem: "layout",
				Name:      "block_count",
				Help:      "Block count of the most recently laid-out pass, by IR kind",
			},
			[]string{"kind"},
		),
	}
}

// ObserveComponent records how long a named pipeline component took.
func (m *Metrics) ObserveComponent(component string, d time.Duration) {
	m.ComponentDurationSeconds.WithLabelValues(component).Observe(d.Seconds())
}

// ObserveLayout records a completed layout run's total duration and outcome.
func (m *Metrics) ObserveLayout(d time.Duration, err error) {
	m.LayoutDurationSeconds.Observe(d.Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.PassesTotal.WithLabelValues(outcome).Inc()
}

// SetBlockCount records the block count of the pass currently being laid
// out, by kind ("mir" or "lir").
func (m *Metrics) SetBlockCount(kind string, n int) {
	m.BlockCount.WithLabelValues(kind).Set(float64(n))
}

// Server is a minimal /metrics HTTP exporter over m's registry.
type Server struct {
	http *http.Server
}

// Serve starts an HTTP server on addr exposing m's registry at /metrics. It
// blocks until the context is cancelled or the server errors, mirroring
// the graceful-shutdown pattern the teacher's CLI uses for its own server
// commands.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
