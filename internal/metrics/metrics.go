// Package metrics exposes build and check counters for Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gojshint"

// Recorder holds the build metrics. A nil *Recorder records nothing.
type Recorder struct {
	builds        *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	files         *prometheus.CounterVec
	checkDuration prometheus.Histogram
	diagnostics   *prometheus.CounterVec
	retracted     prometheus.Counter
	migrations    *prometheus.CounterVec
}

// New registers the metrics with reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		builds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Builds run, by mode.",
		}, []string{"mode"}),
		buildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Build wall time, by mode.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 9),
		}, []string{"mode"}),
		files: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files visited, by outcome.",
		}, []string{"outcome"}),
		checkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Time spent in the lint engine per file.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 9),
		}),
		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Diagnostics reported, by marker severity.",
		}, []string{"severity"}),
		retracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_retracted_total",
			Help:      "Markers removed before re-checking a file.",
		}),
		migrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preference_loads_total",
			Help:      "Project preference loads, by schema version found.",
		}, []string{"schema"}),
	}
}

// Build records one finished build.
func (r *Recorder) Build(mode string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.builds.WithLabelValues(mode).Inc()
	r.buildDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// File records one visited file. outcome is "checked", "skipped" or "failed".
func (r *Recorder) File(outcome string) {
	if r == nil {
		return
	}
	r.files.WithLabelValues(outcome).Inc()
}

// Check records the engine time of one file.
func (r *Recorder) Check(elapsed time.Duration) {
	if r == nil {
		return
	}
	r.checkDuration.Observe(elapsed.Seconds())
}

// Diagnostic records one diagnostic turned into a marker of severity.
func (r *Recorder) Diagnostic(severity string) {
	if r == nil {
		return
	}
	r.diagnostics.WithLabelValues(severity).Inc()
}

// Retracted records removed markers.
func (r *Recorder) Retracted(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.retracted.Add(float64(n))
}

// PreferencesLoaded records the schema a project's preferences came from.
func (r *Recorder) PreferencesLoaded(schema string) {
	if r == nil {
		return
	}
	if schema == "" {
		schema = "defaults"
	}
	r.migrations.WithLabelValues(schema).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx ends.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("stop metrics server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	}
}
