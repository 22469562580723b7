package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricConstructions        = "typedhttp.client.constructions"
	MetricConstructionDuration = "typedhttp.client.construction.duration"
	MetricRequests             = "typedhttp.client.requests"
	MetricRequestDuration      = "typedhttp.client.request.duration"
	MetricActiveRequests       = "typedhttp.client.active_requests"
)

// Metrics holds the instruments of named clients.
type Metrics struct {
	constructions        metric.Int64Counter
	constructionDuration metric.Float64Histogram
	requests             metric.Int64Counter
	requestDuration      metric.Float64Histogram
	activeRequests       metric.Int64UpDownCounter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	constructions, err := meter.Int64Counter(MetricConstructions,
		metric.WithDescription("Handler chain constructions by client and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricConstructions, err)
	}

	constructionDuration, err := meter.Float64Histogram(MetricConstructionDuration,
		metric.WithDescription("Duration of handler chain constructions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricConstructionDuration, err)
	}

	requests, err := meter.Int64Counter(MetricRequests,
		metric.WithDescription("Outgoing requests by client, method and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequests, err)
	}

	requestDuration, err := meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Duration of outgoing requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRequestDuration, err)
	}

	activeRequests, err := meter.Int64UpDownCounter(MetricActiveRequests,
		metric.WithDescription("Number of in-flight outgoing requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricActiveRequests, err)
	}

	return &Metrics{
		constructions:        constructions,
		constructionDuration: constructionDuration,
		requests:             requests,
		requestDuration:      requestDuration,
		activeRequests:       activeRequests,
	}, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordConstruction records one handler chain construction for client.
func (m *Metrics) RecordConstruction(ctx context.Context, client string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.constructions.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrClientName, client),
		attribute.String("status", status(err)),
	))
	m.constructionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrClientName, client),
	))
}

// RecordRequestStart increments the in-flight request count.
func (m *Metrics) RecordRequestStart(ctx context.Context, client string) {
	if m == nil {
		return
	}
	m.activeRequests.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrClientName, client)))
}

// RecordRequestEnd decrements in-flight requests and records the completed
// request. statusCode is 0 when no response was received.
func (m *Metrics) RecordRequestEnd(ctx context.Context, client, method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	code := "none"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.activeRequests.Add(ctx, -1, metric.WithAttributes(attribute.String(AttrClientName, client)))
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrClientName, client),
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPStatusCode, code),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrClientName, client),
		attribute.String(AttrHTTPMethod, method),
	))
}
