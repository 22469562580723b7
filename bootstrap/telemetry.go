package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/typedhttp/component"
	"github.com/kbukum/typedhttp/config"
	"github.com/kbukum/typedhttp/observability"
)

// telemetry owns the OTLP providers of the application and flushes them on
// shutdown.
type telemetry struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *observability.Metrics
	details string
}

// newTelemetry installs the global providers configured in cfg. It returns
// nil when neither tracing nor metrics is configured.
func newTelemetry(ctx context.Context, cfg *config.ServiceConfig) (*telemetry, error) {
	if cfg.Tracing == nil && cfg.Metrics == nil {
		return nil, nil
	}
	t := &telemetry{}
	if cfg.Tracing != nil {
		tp, err := observability.InitTracer(ctx, *cfg.Tracing)
		if err != nil {
			return nil, fmt.Errorf("tracing: %w", err)
		}
		t.tracer = tp
		t.details = "traces=" + cfg.Tracing.Endpoint
	}
	if cfg.Metrics != nil {
		mp, err := observability.InitMeter(ctx, *cfg.Metrics)
		if err != nil {
			_ = t.Stop(ctx)
			return nil, fmt.Errorf("metrics: %w", err)
		}
		t.meter = mp
		metrics, err := observability.NewMetrics(mp.Meter(observability.ScopeName))
		if err != nil {
			_ = t.Stop(ctx)
			return nil, fmt.Errorf("metrics: %w", err)
		}
		t.metrics = metrics
		if t.details != "" {
			t.details += " "
		}
		t.details += "metrics=" + cfg.Metrics.Endpoint
	}
	return t, nil
}

func (t *telemetry) Name() string { return "telemetry" }

func (t *telemetry) Start(context.Context) error { return nil }

func (t *telemetry) Stop(ctx context.Context) error {
	var errs []error
	if t.tracer != nil {
		errs = append(errs, t.tracer.Shutdown(ctx))
	}
	if t.meter != nil {
		errs = append(errs, t.meter.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}

func (t *telemetry) Health(context.Context) component.Health {
	return component.Health{Name: t.Name(), Status: component.StatusHealthy}
}

func (t *telemetry) Describe() component.Description {
	return component.Description{Name: "OpenTelemetry", Type: "telemetry", Details: t.details}
}
