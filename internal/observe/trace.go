package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope for every span this service emits.
const tracerName = "github.com/tilawa-app/tilawa"

// StartSpan opens a span on the globally registered tracer provider. The
// engine wraps each analysis in one, and the HTTP middleware wraps each
// request; the caller must End the span.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}

// CorrelationID returns the active trace ID, which doubles as the
// request-scoped correlation identifier surfaced to callers in the
// X-Correlation-ID header. Empty when ctx carries no recording span.
func CorrelationID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// Logger returns the default [slog.Logger], enriched with trace_id and
// span_id when ctx carries an active span, so analysis log lines can be
// joined to the request that produced them.
func Logger(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		l = l.With(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}
