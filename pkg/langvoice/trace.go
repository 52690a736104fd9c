package langvoice

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for SDK spans.
const tracerName = "github.com/langvoice/langvoice-go"

// startSpan opens a client span for one API exchange, using the globally
// registered tracer provider. A no-op provider makes this free, so spans are
// always emitted.
func startSpan(ctx context.Context, method, endpoint string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "langvoice"+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("langvoice.endpoint", endpoint),
		),
	)
}

// endSpan closes the span, marking it failed when err is non-nil.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
