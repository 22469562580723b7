package clientfactory

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/typedhttp/component"
	"github.com/kbukum/typedhttp/di"
	"github.com/kbukum/typedhttp/errors"
	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/observability"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-UA", r.Header.Get("User-Agent"))
		w.Header().Set("X-Seen-Order", r.Header.Get("X-Order"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// counting returns a hook that counts constructions.
func counting(n *atomic.Int32) func(*HandlerBuilder) error {
	return func(*HandlerBuilder) error {
		n.Add(1)
		return nil
	}
}

func TestCreateClient_NotRegistered(t *testing.T) {
	f := New(nil, Config{})
	_, err := f.CreateClient(context.Background(), "missing")
	if !errors.HasCode(err, errors.ErrCodeNotRegistered) {
		t.Fatalf("expected NOT_REGISTERED, got %v", err)
	}
}

func TestCreateClient_Defaults(t *testing.T) {
	srv := echoServer(t)
	f := New(nil, Config{UserAgent: "factory-test"})
	f.AddClient("users").ConfigureClient(func(c *httpclient.ClientConfig) {
		c.BaseURL = srv.URL
	})

	client, err := f.CreateClient(context.Background(), "users")
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if client.Name() != "users" {
		t.Errorf("Name() = %q", client.Name())
	}
	if _, ok := client.Transport().(*http.Transport); !ok {
		t.Errorf("expected the factory transport as chain, got %T", client.Transport())
	}
	resp, err := client.Do(context.Background(), httpclient.Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got := resp.Headers.Get("X-Seen-UA"); got != "factory-test" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestCreateClient_ReusesChain(t *testing.T) {
	var builds atomic.Int32
	f := New(nil, Config{})
	f.AddClient("users").ConfigureHandlerBuilder(counting(&builds))

	a, err := f.CreateClient(context.Background(), "users")
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	b, _ := f.CreateClient(context.Background(), "users")
	if a.Transport() != b.Transport() {
		t.Error("expected both clients to share one chain")
	}
	if builds.Load() != 1 {
		t.Errorf("constructions = %d, want 1", builds.Load())
	}
}

func TestCreateClient_RotatesAfterLifetime(t *testing.T) {
	clock := newClock()
	var builds atomic.Int32
	f := New(nil, Config{HandlerLifetime: time.Minute}, WithClock(clock.Now))
	f.AddClient("users").ConfigureHandlerBuilder(counting(&builds))

	first, _ := f.CreateClient(context.Background(), "users")
	clock.Advance(59 * time.Second)
	same, _ := f.CreateClient(context.Background(), "users")
	if first.Transport() != same.Transport() || builds.Load() != 1 {
		t.Fatal("chain must be reused within its lifetime")
	}

	clock.Advance(time.Second)
	rotated, _ := f.CreateClient(context.Background(), "users")
	if rotated.Transport() == first.Transport() {
		t.Error("expected a new chain after the lifetime elapsed")
	}
	if builds.Load() != 2 {
		t.Errorf("constructions = %d, want 2", builds.Load())
	}
}

func TestCreateClient_LifetimeOverrides(t *testing.T) {
	clock := newClock()
	var unbounded, short atomic.Int32
	f := New(nil, Config{HandlerLifetime: -1}, WithClock(clock.Now))
	f.AddClient("forever").ConfigureHandlerBuilder(counting(&unbounded))
	f.AddClient("short").ConfigureHandlerBuilder(counting(&short)).SetHandlerLifetime(time.Second)

	for range 3 {
		_, _ = f.CreateClient(context.Background(), "forever")
		_, _ = f.CreateClient(context.Background(), "short")
		clock.Advance(time.Hour)
	}
	if unbounded.Load() != 1 {
		t.Errorf("negative lifetime: constructions = %d, want 1", unbounded.Load())
	}
	if short.Load() != 3 {
		t.Errorf("per-client lifetime: constructions = %d, want 3", short.Load())
	}
}

func TestCreateClient_ConcurrentSingleConstruction(t *testing.T) {
	var builds atomic.Int32
	f := New(nil, Config{})
	f.AddClient("users").ConfigureHandlerBuilder(func(*HandlerBuilder) error {
		builds.Add(1)
		time.Sleep(20 * time.Millisecond)
		return nil
	})

	var wg sync.WaitGroup
	transports := make([]http.RoundTripper, 32)
	for i := range transports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := f.CreateClient(context.Background(), "users")
			if err != nil {
				t.Errorf("CreateClient: %v", err)
				return
			}
			transports[i] = c.Transport()
		}(i)
	}
	wg.Wait()

	if builds.Load() != 1 {
		t.Errorf("constructions = %d, want 1", builds.Load())
	}
	for i := range transports {
		if transports[i] != transports[0] {
			t.Fatal("all callers must share one chain")
		}
	}
}

func TestCreateClient_ErrorsAreNotCached(t *testing.T) {
	boom := stderrors.New("settings unavailable")
	var fail atomic.Bool
	fail.Store(true)
	f := New(nil, Config{})
	f.AddClient("users").ConfigureHandlerBuilder(func(*HandlerBuilder) error {
		if fail.Load() {
			return boom
		}
		return nil
	})

	_, err := f.CreateClient(context.Background(), "users")
	if !errors.HasCode(err, errors.ErrCodeHandlerConstruction) || !stderrors.Is(err, boom) {
		t.Fatalf("expected HANDLER_CONSTRUCTION wrapping the cause, got %v", err)
	}

	fail.Store(false)
	if _, err := f.CreateClient(context.Background(), "users"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestCreateClient_InvalidClientConfig(t *testing.T) {
	f := New(nil, Config{})
	f.AddClient("users").ConfigureClient(func(c *httpclient.ClientConfig) { c.BaseURL = "not a url" })

	_, err := f.CreateClient(context.Background(), "users")
	if !errors.HasCode(err, errors.ErrCodeHandlerConstruction) || !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected invalid config construction error, got %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	var builds atomic.Int32
	f := New(nil, Config{})
	f.AddClient("users").ConfigureHandlerBuilder(counting(&builds))

	_, _ = f.CreateClient(context.Background(), "users")
	f.Invalidate("users")
	f.Invalidate("unknown")
	_, _ = f.CreateClient(context.Background(), "users")
	if builds.Load() != 2 {
		t.Errorf("constructions = %d, want 2", builds.Load())
	}
}

func TestHooksAddedLaterTakeEffect(t *testing.T) {
	srv := echoServer(t)
	f := New(nil, Config{})
	b := f.AddClient("users").ConfigureClient(func(c *httpclient.ClientConfig) { c.BaseURL = srv.URL })
	_, _ = f.CreateClient(context.Background(), "users")

	b.ConfigureClient(func(c *httpclient.ClientConfig) { c.BaseURL = "http://other.test" })
	c, _ := f.CreateClient(context.Background(), "users")
	if c.Config().BaseURL != "http://other.test" {
		t.Errorf("expected later hook to apply, got %q", c.Config().BaseURL)
	}
}

func tag(value string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return httpclient.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r = r.Clone(r.Context())
			r.Header.Add("X-Order", value)
			return next.RoundTrip(r)
		})
	}
}

func TestAddHandler_Order(t *testing.T) {
	var seen []string
	f := New(nil, Config{})
	f.AddClient("users").
		AddHandler(tag("first")).
		AddHandler(tag("second")).
		ConfigureHandlerBuilder(func(hb *HandlerBuilder) error {
			hb.PrimaryHandler = httpclient.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				seen = r.Header.Values("X-Order")
				return &http.Response{StatusCode: http.StatusNoContent, Body: http.NoBody, Request: r}, nil
			})
			return nil
		})

	c, err := f.CreateClient(context.Background(), "users")
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if _, err := c.Do(context.Background(), httpclient.Request{Method: http.MethodGet, Path: "http://example.test/"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(seen) != 2 || seen[0] != "first" || seen[1] != "second" {
		t.Errorf("handler order = %v, want [first second]", seen)
	}
}

func TestHandlerBuilder_Build(t *testing.T) {
	primary := httpclient.RoundTripperFunc(func(*http.Request) (*http.Response, error) { return nil, nil })
	hb := &HandlerBuilder{PrimaryHandler: primary}
	if got := hb.Build(); got == nil {
		t.Fatal("expected primary handler")
	}

	var order []string
	wrap := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			order = append(order, name)
			return next
		}
	}
	hb.AdditionalHandlers = []Middleware{wrap("outer"), wrap("inner")}
	hb.Build()
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("wrapping order = %v, want inner wrapped first", order)
	}
}

type greeter struct {
	client *httpclient.Client
}

func TestAddTypedClient(t *testing.T) {
	services := di.NewContainer()
	f := New(services, Config{})
	var activations atomic.Int32
	f.AddClient("greeter").AddTypedClient(func(c *httpclient.Client, s di.Container) (any, error) {
		activations.Add(1)
		if s != services {
			t.Error("expected the factory container")
		}
		return &greeter{client: c}, nil
	})

	a, err := di.Resolve[*greeter](services, "greeter")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, _ := di.Resolve[*greeter](services, "greeter")
	if a == b {
		t.Error("typed clients are transient")
	}
	if a.client.Transport() != b.client.Transport() {
		t.Error("typed clients must share the active chain")
	}
	if activations.Load() != 2 {
		t.Errorf("activations = %d, want 2", activations.Load())
	}
}

func TestAddTypedClient_ConstructionErrorSurfaces(t *testing.T) {
	services := di.NewContainer()
	f := New(services, Config{})
	f.AddClient("broken").
		ConfigureHandlerBuilder(func(*HandlerBuilder) error { return stderrors.New("nope") }).
		AddTypedClient(func(c *httpclient.Client, _ di.Container) (any, error) { return c, nil })

	_, err := services.Resolve("broken")
	if !errors.HasCode(err, errors.ErrCodeHandlerConstruction) {
		t.Fatalf("expected HANDLER_CONSTRUCTION, got %v", err)
	}
}

func TestAddTypedClient_ResolveContext(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	services := di.NewContainer()
	f := New(services, Config{}, WithTracerProvider(tp))
	f.AddClient("greeter").AddTypedClient(func(c *httpclient.Client, _ di.Container) (any, error) {
		return &greeter{client: c}, nil
	})

	ctx, parent := tp.Tracer("test").Start(context.Background(), "caller")
	if _, err := services.ResolveContext(ctx, "greeter"); err != nil {
		t.Fatalf("ResolveContext: %v", err)
	}
	parent.End()

	var construct sdktrace.ReadOnlySpan
	for _, s := range sr.Ended() {
		if s.Name() == observability.SpanClientConstruct {
			construct = s
		}
	}
	if construct == nil {
		t.Fatal("expected a construction span")
	}
	if construct.Parent().SpanID() != parent.SpanContext().SpanID() {
		t.Error("construction span must join the caller's trace")
	}
}

func TestCreateClient_CancelledContext(t *testing.T) {
	f := New(nil, Config{})
	var builds atomic.Int32
	f.AddClient("users").ConfigureHandlerBuilder(func(*HandlerBuilder) error {
		builds.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.CreateClient(ctx, "users"); !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if builds.Load() != 0 {
		t.Error("a cancelled caller must not start a construction")
	}

	if _, err := f.CreateClient(context.Background(), "users"); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if _, err := f.CreateClient(ctx, "users"); err != nil {
		t.Errorf("active chain should be returned to a cancelled caller: %v", err)
	}
}

func TestFromContainer(t *testing.T) {
	services := di.NewContainer()
	f := New(services, Config{})
	got, err := FromContainer(services)
	if err != nil {
		t.Fatalf("FromContainer: %v", err)
	}
	if got != f || f.Services() != services {
		t.Error("expected the registered factory")
	}
}

func TestTracingAndMetrics(t *testing.T) {
	srv := echoServer(t)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reader := sdkmetric.NewManualReader()
	metrics, err := observability.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	f := New(nil, Config{Tracing: true}, WithTracerProvider(tp), WithMetrics(metrics))
	f.AddClient("users").ConfigureClient(func(c *httpclient.ClientConfig) { c.BaseURL = srv.URL })

	c, err := f.CreateClient(context.Background(), "users")
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if _, ok := c.Transport().(*observability.Transport); !ok {
		t.Fatalf("expected tracing transport outermost, got %T", c.Transport())
	}
	if _, err := c.Do(context.Background(), httpclient.Request{Method: http.MethodGet, Path: "/"}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	names := map[string]bool{}
	for _, s := range sr.Ended() {
		names[s.Name()] = true
	}
	if !names[observability.SpanClientConstruct] || !names["HTTP GET"] {
		t.Errorf("unexpected spans %v", names)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = true
		}
	}
	if !found[observability.MetricConstructions] || !found[observability.MetricRequests] {
		t.Errorf("unexpected metrics %v", found)
	}
}

func TestComponentLifecycle(t *testing.T) {
	f := New(nil, Config{HandlerLifetime: -1})
	f.AddClient("a")
	f.AddClient("b")

	reg := component.NewRegistry()
	if err := reg.Register(f); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}

	_, _ = f.CreateClient(context.Background(), "a")
	if h := f.Health(context.Background()); h.Status != component.StatusHealthy || h.Message != "2 clients, 1 active" {
		t.Errorf("unexpected health %+v", h)
	}
	if d := f.Describe(); d.Details != "2 clients lifetime=unbounded tracing=false" {
		t.Errorf("unexpected description %+v", d)
	}

	if err := reg.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if f.active() != 0 {
		t.Error("Stop must retire every chain")
	}
	if names := f.Names(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v", names)
	}
}

func TestStart_InvalidConfig(t *testing.T) {
	f := New(nil, Config{Transport: httpclient.TransportConfig{TLS: &httpclient.TLSConfig{MinVersion: "1.0"}}})
	if err := f.Start(context.Background()); !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.HandlerLifetime != DefaultHandlerLifetime {
		t.Errorf("HandlerLifetime = %v", cfg.HandlerLifetime)
	}
	if cfg.UserAgent == "" {
		t.Error("expected default User-Agent")
	}
}
