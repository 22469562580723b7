package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/typedhttp/clientfactory"
	"github.com/kbukum/typedhttp/component"
	"github.com/kbukum/typedhttp/di"
	"github.com/kbukum/typedhttp/errors"
	"github.com/kbukum/typedhttp/logger"
	"github.com/kbukum/typedhttp/typedclient"
)

// App hosts the typed clients of a service: configuration, logging,
// telemetry, the DI container and the client factory, with a uniform
// start and stop lifecycle.
//
//	app, err := bootstrap.NewApp(&cfg)
//	err = bootstrap.RegisterClient[UsersAPI](app, "users", NewUsersAPI)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    users, err := typedclient.Resolve[UsersAPI](app.Container)
//	    ...
//	})
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Container  di.Container
	Components *component.Registry
	Factory    *clientfactory.Factory
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error
	onStart         []Hook
	onStop          []Hook
}

// NewApp applies defaults to cfg, validates it and builds the application.
// Telemetry providers are installed before the client factory is created so
// that client spans and metrics use them.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Container:       o.container,
		Components:      component.NewRegistry(),
		Logger:          o.logger,
		gracefulTimeout: 15 * time.Second,
	}
	if app.Container == nil {
		app.Container = di.NewContainer()
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if app.Logger == nil {
		app.Logger = logger.New(&base.Logging, base.Name)
		logger.SetGlobalLogger(app.Logger)
	}

	_ = app.Container.RegisterSingleton(di.Names.Config, cfg)
	_ = app.Container.RegisterSingleton(di.Names.Logger, app.Logger)

	factoryOpts := []clientfactory.Option{clientfactory.WithLogger(app.Logger.WithComponent("clientfactory"))}
	tel, err := newTelemetry(context.Background(), base)
	if err != nil {
		return nil, err
	}
	if tel != nil {
		if tel.metrics != nil {
			_ = app.Container.RegisterSingleton(di.Names.Metrics, tel.metrics)
			factoryOpts = append(factoryOpts, clientfactory.WithMetrics(tel.metrics))
		}
		if err := app.Components.Register(tel); err != nil {
			return nil, err
		}
	}
	factoryOpts = append(factoryOpts, o.factoryOptions...)

	app.Factory = clientfactory.New(app.Container, base.HTTP, factoryOpts...)
	if err := app.Components.Register(app.Factory); err != nil {
		return nil, err
	}
	return app, nil
}

// RegisterClient registers a typed client configured by the clients.<name>
// section of the application config. opts are applied after the config.
func RegisterClient[T any, C Config](app *App[C], name string, gen typedclient.Generator[T], opts ...typedclient.Option) error {
	clientCfg, ok := app.Cfg.GetServiceConfig().Client(name)
	if !ok {
		return errors.InvalidConfig(fmt.Sprintf("no configuration for client %q", name)).
			WithDetail("client", name)
	}
	opts = append([]typedclient.Option{typedclient.WithConfig(clientCfg)}, opts...)
	_, err := typedclient.Register[T](app.Factory, gen, opts...)
	if err != nil {
		return err
	}
	app.Logger.Debug("typed client configured", logger.Fields(
		logger.FieldClient, name,
		"type", typedclient.IdentityFor[T]().Name,
		"auth", clientCfg.Auth.Describe(),
	))
	return nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback that runs after components started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts the application, blocks until a shutdown signal or ctx is
// done, then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}
	a.Logger.Info("application ready")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask starts the application, runs task and shuts down when it returns.
// SIGINT and SIGTERM cancel the task context.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	taskErr := task(taskCtx)
	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		"clients", len(a.Factory.Names()),
	))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}

	a.Logger.Info("application started", logger.Fields(
		logger.FieldDuration, time.Since(start).String(),
	))
	return nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx is done.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		return nil
	}
}

// Shutdown stops the application when the caller manages the lifecycle.
func (a *App[C]) Shutdown(context.Context) error {
	return a.stop()
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}
	if err := a.Container.Close(); err != nil {
		a.Logger.Error("container close error", logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Info("application stopped")
	return shutdownErr
}
