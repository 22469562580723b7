// Package observability provides OpenTelemetry tracing and metrics for named
// clients.
//
// Bootstrap:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
// Client instrumentation:
//
//	metrics, err := observability.NewMetrics(observability.Meter())
//	rt := observability.NewTransport("users", next, observability.WithRequestMetrics(metrics))
//
// Transport starts a client span per request, injects trace headers and
// records request metrics. Metrics also records handler chain constructions.
package observability
