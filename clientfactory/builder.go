package clientfactory

import (
	"context"
	"time"

	"github.com/kbukum/typedhttp/di"
	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/logger"
)

// ActivateFunc turns a finished client into a typed instance.
type ActivateFunc func(client *httpclient.Client, services di.Container) (any, error)

// Builder attaches construction hooks to one named client. Hooks run each
// time the factory builds the client's handler chain, never at registration.
type Builder struct {
	factory *Factory
	client  *namedClient
}

// Name returns the name of the client being configured.
func (b *Builder) Name() string { return b.client.name }

// Factory returns the owning factory.
func (b *Builder) Factory() *Factory { return b.factory }

// ConfigureHandlerBuilder adds a hook that may replace the primary handler or
// add handlers. Hooks run in registration order; an error fails the construction.
func (b *Builder) ConfigureHandlerBuilder(fn func(*HandlerBuilder) error) *Builder {
	b.update(func(c *namedClient) { c.configureHandler = append(c.configureHandler, fn) })
	return b
}

// AddHandler appends a handler wrapping the primary handler.
func (b *Builder) AddHandler(m Middleware) *Builder {
	b.update(func(c *namedClient) { c.handlers = append(c.handlers, m) })
	return b
}

// ConfigureClient adds a hook that edits the request defaults of the client.
func (b *Builder) ConfigureClient(fn func(*httpclient.ClientConfig)) *Builder {
	b.update(func(c *namedClient) { c.configureClient = append(c.configureClient, fn) })
	return b
}

// SetHandlerLifetime overrides the factory's handler lifetime for this client.
func (b *Builder) SetHandlerLifetime(d time.Duration) *Builder {
	b.update(func(c *namedClient) { c.lifetime = &d })
	return b
}

// AddTypedClient registers a transient component under the client's name in
// the container. Each resolve obtains a client bound to the active handler
// chain and passes it to activate. The context given to ResolveContext
// reaches CreateClient, so construction spans join the caller's trace.
func (b *Builder) AddTypedClient(activate ActivateFunc) *Builder {
	f, name := b.factory, b.client.name
	err := f.services.RegisterTransient(name, func(ctx context.Context) (any, error) {
		client, err := f.CreateClient(ctx, name)
		if err != nil {
			return nil, err
		}
		return activate(client, f.services)
	})
	if err != nil {
		f.log.Error("typed client registration failed", logger.Fields(
			logger.FieldClient, name,
			logger.FieldError, err.Error(),
		))
	}
	return b
}

// update edits the hooks and drops the active chain so the next
// CreateClient sees them.
func (b *Builder) update(fn func(*namedClient)) {
	c := b.client
	c.mu.Lock()
	fn(c)
	c.mu.Unlock()
	b.factory.Invalidate(c.name)
}
