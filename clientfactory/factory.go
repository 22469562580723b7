package clientfactory

import (
	"context"
	"net/http"
	"slices"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/typedhttp/di"
	"github.com/kbukum/typedhttp/errors"
	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/logger"
	"github.com/kbukum/typedhttp/observability"
	"github.com/kbukum/typedhttp/validation"
)

// Factory owns the named clients of a container. It builds each client's
// handler chain on demand, reuses it for the handler lifetime and then
// builds a new one.
type Factory struct {
	services       di.Container
	cfg            Config
	log            *logger.Logger
	metrics        *observability.Metrics
	tracerProvider trace.TracerProvider
	now            func() time.Time

	mu      sync.RWMutex
	clients map[string]*namedClient
}

// namedClient is one registration and its active handler chain.
type namedClient struct {
	name string

	mu               sync.Mutex
	configureHandler []func(*HandlerBuilder) error
	handlers         []Middleware
	configureClient  []func(*httpclient.ClientConfig)
	lifetime         *time.Duration

	// build serializes constructions; active is guarded by it.
	build  sync.Mutex
	active *activeHandler
}

// activeHandler is a constructed chain and what it needs for retirement.
type activeHandler struct {
	handler   http.RoundTripper
	owned     *http.Transport
	config    httpclient.ClientConfig
	expiresAt time.Time
}

func (a *activeHandler) expired(now time.Time) bool {
	return !a.expiresAt.IsZero() && !now.Before(a.expiresAt)
}

// retire closes idle connections of the transport the chain was built on.
// In-flight requests finish normally.
func (a *activeHandler) retire() {
	if a != nil && a.owned != nil {
		a.owned.CloseIdleConnections()
	}
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the factory logger.
func WithLogger(l *logger.Logger) Option {
	return func(f *Factory) { f.log = l }
}

// WithMetrics records construction and request metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(f *Factory) { f.metrics = m }
}

// WithTracerProvider sets the provider used for construction and request
// spans. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(f *Factory) { f.tracerProvider = tp }
}

// WithClock sets the clock used for handler expiry.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// New creates a Factory and registers it in services under
// di.Names.ClientFactory. A nil services uses a new container.
func New(services di.Container, cfg Config, opts ...Option) *Factory {
	if services == nil {
		services = di.NewContainer()
	}
	cfg.ApplyDefaults()

	f := &Factory{
		services: services,
		cfg:      cfg,
		log:      logger.Get("clientfactory"),
		now:      time.Now,
		clients:  make(map[string]*namedClient),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.tracerProvider == nil {
		f.tracerProvider = otel.GetTracerProvider()
	}

	_ = services.RegisterSingleton(di.Names.ClientFactory, f)
	return f
}

// FromContainer returns the factory registered in services.
func FromContainer(services di.Container) (*Factory, error) {
	return di.Resolve[*Factory](services, di.Names.ClientFactory)
}

// Services returns the container the factory resolves dependencies from.
func (f *Factory) Services() di.Container { return f.services }

// Config returns the effective configuration.
func (f *Factory) Config() Config { return f.cfg }

// AddClient returns a Builder for the named client, registering it on first
// use. Calling it again with the same name configures the same client.
func (f *Factory) AddClient(name string) *Builder {
	f.mu.Lock()
	c, ok := f.clients[name]
	if !ok {
		c = &namedClient{name: name}
		f.clients[name] = c
	}
	f.mu.Unlock()

	if !ok {
		f.log.Debug("client registered", logger.Fields(logger.FieldClient, name))
	}
	return &Builder{factory: f, client: c}
}

// Has reports whether a client with name is registered.
func (f *Factory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.clients[name]
	return ok
}

// Names returns the registered client names in sorted order.
func (f *Factory) Names() []string {
	f.mu.RLock()
	names := make([]string, 0, len(f.clients))
	for name := range f.clients {
		names = append(names, name)
	}
	f.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (f *Factory) lookup(name string) (*namedClient, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.clients[name]
	return c, ok
}

// CreateClient returns a client bound to the active handler chain of name,
// constructing a chain first when none is active or the active one expired.
// Construction errors are returned as HANDLER_CONSTRUCTION and not cached.
// A cancelled ctx returns ctx.Err() instead of starting a construction.
func (f *Factory) CreateClient(ctx context.Context, name string) (*httpclient.Client, error) {
	c, ok := f.lookup(name)
	if !ok {
		return nil, errors.NotRegistered(name)
	}

	c.build.Lock()
	defer c.build.Unlock()

	if a := c.active; a != nil && !a.expired(f.now()) {
		return httpclient.NewClient(name, a.handler, a.config), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a, err := f.construct(ctx, c)
	if err != nil {
		return nil, errors.HandlerConstruction(name, err)
	}
	previous := c.active
	c.active = a
	previous.retire()

	return httpclient.NewClient(name, a.handler, a.config), nil
}

// construct runs the hooks of c once and returns the resulting chain.
func (f *Factory) construct(ctx context.Context, c *namedClient) (a *activeHandler, err error) {
	start := f.now()
	ctx, span := f.tracerProvider.Tracer(observability.ScopeName).Start(ctx, observability.SpanClientConstruct,
		trace.WithAttributes(attribute.String(observability.AttrClientName, c.name)),
	)
	defer func() {
		elapsed := f.now().Sub(start)
		observability.EndSpan(span, err)
		f.metrics.RecordConstruction(ctx, c.name, elapsed, err)
		if err != nil {
			f.log.WithContext(ctx).Error("handler construction failed", logger.Fields(
				logger.FieldClient, c.name,
				logger.FieldError, err.Error(),
			))
			return
		}
		f.log.WithContext(ctx).Debug("handler constructed", logger.Fields(
			logger.FieldClient, c.name,
			logger.FieldDuration, elapsed.String(),
		))
	}()

	c.mu.Lock()
	configureHandler := slices.Clone(c.configureHandler)
	handlers := slices.Clone(c.handlers)
	configureClient := slices.Clone(c.configureClient)
	lifetime := f.cfg.HandlerLifetime
	if c.lifetime != nil {
		lifetime = *c.lifetime
	}
	c.mu.Unlock()

	primary, err := httpclient.NewTransport(f.cfg.Transport)
	if err != nil {
		return nil, err
	}
	hb := &HandlerBuilder{
		Name:               c.name,
		Services:           f.services,
		PrimaryHandler:     primary,
		AdditionalHandlers: handlers,
	}
	for _, fn := range configureHandler {
		if err := fn(hb); err != nil {
			primary.CloseIdleConnections()
			return nil, err
		}
	}

	clientCfg := httpclient.ClientConfig{UserAgent: f.cfg.UserAgent}
	for _, fn := range configureClient {
		fn(&clientCfg)
	}
	if err := validation.Validate(clientCfg); err != nil {
		return nil, err
	}

	a = &activeHandler{handler: hb.Build(), config: clientCfg}
	if hb.PrimaryHandler == http.RoundTripper(primary) {
		a.owned = primary
	}
	if f.cfg.Tracing {
		a.handler = observability.NewTransport(c.name, a.handler,
			observability.WithTracerProvider(f.tracerProvider),
			observability.WithRequestMetrics(f.metrics),
		)
	}
	if lifetime > 0 {
		a.expiresAt = f.now().Add(lifetime)
	}
	return a, nil
}

// Invalidate drops the active chain of name so the next CreateClient builds
// a new one. Unknown names are ignored.
func (f *Factory) Invalidate(name string) {
	c, ok := f.lookup(name)
	if !ok {
		return
	}
	c.build.Lock()
	previous := c.active
	c.active = nil
	c.build.Unlock()
	previous.retire()
}

// active reports how many clients currently hold a chain.
func (f *Factory) active() int {
	f.mu.RLock()
	clients := make([]*namedClient, 0, len(f.clients))
	for _, c := range f.clients {
		clients = append(clients, c)
	}
	f.mu.RUnlock()

	n := 0
	for _, c := range clients {
		c.build.Lock()
		if c.active != nil {
			n++
		}
		c.build.Unlock()
	}
	return n
}
