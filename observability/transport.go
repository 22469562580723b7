package observability

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Transport is an http.RoundTripper that traces and measures each request of
// a named client before delegating to Next.
type Transport struct {
	client     string
	next       http.RoundTripper
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	metrics    *Metrics
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithTracerProvider sets the provider spans are created with. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) TransportOption {
	return func(t *Transport) { t.tracer = tp.Tracer(ScopeName) }
}

// WithPropagator sets the propagator used to inject trace headers. Defaults to
// the global propagator.
func WithPropagator(p propagation.TextMapPropagator) TransportOption {
	return func(t *Transport) { t.propagator = p }
}

// WithRequestMetrics records request metrics on m.
func WithRequestMetrics(m *Metrics) TransportOption {
	return func(t *Transport) { t.metrics = m }
}

// NewTransport wraps next for the named client.
func NewTransport(client string, next http.RoundTripper, opts ...TransportOption) *Transport {
	t := &Transport{client: client, next: next}
	for _, opt := range opts {
		opt(t)
	}
	if t.next == nil {
		t.next = http.DefaultTransport
	}
	if t.tracer == nil {
		t.tracer = Tracer()
	}
	if t.propagator == nil {
		t.propagator = otel.GetTextMapPropagator()
	}
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), fmt.Sprintf("HTTP %s", req.Method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrClientName, t.client),
			attribute.String(AttrHTTPMethod, req.Method),
			attribute.String(AttrURLFull, req.URL.Redacted()),
			attribute.String(AttrServerAddress, req.URL.Host),
		),
	)
	defer span.End()

	out := req.Clone(ctx)
	t.propagator.Inject(ctx, propagation.HeaderCarrier(out.Header))

	t.metrics.RecordRequestStart(ctx, t.client)
	start := time.Now()
	resp, err := t.next.RoundTrip(out)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	t.metrics.RecordRequestEnd(ctx, t.client, req.Method, statusCode, time.Since(start))

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case statusCode >= 500:
		span.SetAttributes(attribute.Int(AttrHTTPStatusCode, statusCode))
		span.SetStatus(codes.Error, http.StatusText(statusCode))
	default:
		span.SetAttributes(attribute.Int(AttrHTTPStatusCode, statusCode))
	}
	return resp, err
}

// Unwrap returns the wrapped transport.
func (t *Transport) Unwrap() http.RoundTripper { return t.next }
