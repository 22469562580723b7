package clientfactory

import (
	"context"
	"fmt"

	"github.com/kbukum/typedhttp/component"
	"github.com/kbukum/typedhttp/di"
	"github.com/kbukum/typedhttp/logger"
)

var (
	_ component.Component   = (*Factory)(nil)
	_ component.Describable = (*Factory)(nil)
)

// Name returns the component name.
func (f *Factory) Name() string { return di.Names.ClientFactory }

// Start validates the configuration. Chains are still built lazily.
func (f *Factory) Start(context.Context) error {
	if err := f.cfg.Validate(); err != nil {
		return fmt.Errorf("clientfactory: %w", err)
	}
	f.log.Info("client factory started", logger.Fields(
		"clients", len(f.Names()),
		"handler_lifetime", f.cfg.HandlerLifetime.String(),
		"tracing", f.cfg.Tracing,
	))
	return nil
}

// Stop retires every active chain.
func (f *Factory) Stop(context.Context) error {
	for _, name := range f.Names() {
		f.Invalidate(name)
	}
	f.log.Info("client factory stopped")
	return nil
}

// Health reports the number of registered and active clients.
func (f *Factory) Health(context.Context) component.Health {
	return component.Health{
		Name:    f.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients, %d active", len(f.Names()), f.active()),
	}
}

// Describe returns a summary for startup logs.
func (f *Factory) Describe() component.Description {
	lifetime := f.cfg.HandlerLifetime.String()
	if f.cfg.HandlerLifetime < 0 {
		lifetime = "unbounded"
	}
	return component.Description{
		Name:    "HTTP client factory",
		Type:    "http-client",
		Details: fmt.Sprintf("%d clients lifetime=%s tracing=%t", len(f.Names()), lifetime, f.cfg.Tracing),
	}
}
