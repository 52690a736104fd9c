package langvoice

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for all SDK metrics.
const meterName = "github.com/langvoice/langvoice-go"

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// remote synthesis round-trips.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// Metrics holds the OpenTelemetry instruments the SDK records into when a
// client is constructed with [WithMetrics]. All fields are safe for
// concurrent use; the underlying OTel types handle their own
// synchronisation.
//
// A nil *Metrics is valid and records nothing, so instrumentation stays
// optional without branches at every call site.
type Metrics struct {
	// RequestDuration tracks API round-trip latency per endpoint.
	RequestDuration metric.Float64Histogram

	// Requests counts API calls by endpoint and outcome status
	// ("ok", "network_error", or the HTTP status code).
	Requests metric.Int64Counter

	// AudioBytes counts synthesised audio volume per endpoint.
	AudioBytes metric.Int64Counter

	// ToolCalls counts toolkit dispatches by tool name and status.
	// Recorded by the tools packages, not the client itself.
	ToolCalls metric.Int64Counter
}

// NewMetrics creates a fully initialised [Metrics] using the given
// [metric.MeterProvider]. Pass nil to use the global OTel provider.
// Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.RequestDuration, err = m.Float64Histogram("langvoice.request.duration",
		metric.WithDescription("Latency of LangVoice API requests."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Requests, err = m.Int64Counter("langvoice.requests",
		metric.WithDescription("Total LangVoice API requests by endpoint and status."),
	); err != nil {
		return nil, err
	}
	if met.AudioBytes, err = m.Int64Counter("langvoice.audio.bytes",
		metric.WithDescription("Total synthesised audio bytes received, by endpoint."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.ToolCalls, err = m.Int64Counter("langvoice.tool.calls",
		metric.WithDescription("Total toolkit dispatches by tool name and status."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

func (m *Metrics) recordRequest(ctx context.Context, endpoint, status string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	)
	m.Requests.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, d.Seconds(), attrs)
}

func (m *Metrics) recordAudio(ctx context.Context, endpoint string, n int) {
	if m == nil {
		return
	}
	m.AudioBytes.Add(ctx, int64(n), metric.WithAttributes(attribute.String("endpoint", endpoint)))
}

// RecordToolCall increments the tool-call counter. Exported for use by the
// tools packages.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string) {
	if m == nil {
		return
	}
	m.ToolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", status),
	))
}
