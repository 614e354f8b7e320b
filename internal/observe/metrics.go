// Package observe provides application-wide observability primitives for
// Tilawa: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Tilawa metrics.
const meterName = "github.com/tilawa-app/tilawa"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// AnalyzeDuration tracks end-to-end recitation analysis latency.
	AnalyzeDuration metric.Float64Histogram

	// BestMatchDuration tracks verse best-match lookup latency.
	BestMatchDuration metric.Float64Histogram

	// --- Counters ---

	// ClassifiedErrors counts classified recitation errors. Use with
	// attribute: attribute.String("category", ...)
	ClassifiedErrors metric.Int64Counter

	// UnrelatedVerses counts analyses rejected as a different verse.
	UnrelatedVerses metric.Int64Counter

	// --- Distributions ---

	// RecitationScore tracks the 0–100 score distribution of analysed
	// recitations.
	RecitationScore metric.Float64Histogram

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Analysis
// is pure in-memory string work, so the buckets skew small.
var latencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
}

// scoreBuckets defines histogram bucket boundaries for the 0–100 score.
var scoreBuckets = []float64{
	0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.AnalyzeDuration, err = m.Float64Histogram("tilawa.analyze.duration",
		metric.WithDescription("End-to-end latency of recitation analysis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.BestMatchDuration, err = m.Float64Histogram("tilawa.bestmatch.duration",
		metric.WithDescription("Latency of verse best-match lookup."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.ClassifiedErrors, err = m.Int64Counter("tilawa.errors.classified",
		metric.WithDescription("Total classified recitation errors by category."),
	); err != nil {
		return nil, err
	}
	if met.UnrelatedVerses, err = m.Int64Counter("tilawa.verses.unrelated",
		metric.WithDescription("Total analyses rejected as a different verse."),
	); err != nil {
		return nil, err
	}

	// Score distribution.
	if met.RecitationScore, err = m.Float64Histogram("tilawa.recitation.score",
		metric.WithDescription("Distribution of recitation scores."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("tilawa.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordAnalysis records the latency and score of one completed analysis.
func (m *Metrics) RecordAnalysis(ctx context.Context, d time.Duration, score float64) {
	m.AnalyzeDuration.Record(ctx, d.Seconds())
	m.RecitationScore.Record(ctx, score)
}

// RecordClassifiedError records one classified error counter increment with
// its category attribute.
func (m *Metrics) RecordClassifiedError(ctx context.Context, category string) {
	m.ClassifiedErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("category", category)),
	)
}

// RecordUnrelated records one rejected-as-different-verse analysis.
func (m *Metrics) RecordUnrelated(ctx context.Context) {
	m.UnrelatedVerses.Add(ctx, 1)
}
