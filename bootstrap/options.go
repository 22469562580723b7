package bootstrap

import (
	"time"

	"github.com/kbukum/typedhttp/clientfactory"
	"github.com/kbukum/typedhttp/di"
	"github.com/kbukum/typedhttp/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	container       di.Container
	gracefulTimeout *time.Duration
	factoryOptions  []clientfactory.Option
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger instead of building one from the
// logging section of the config.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout sets the maximum duration of shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = &d }
}

// WithContainer sets the DI container of the application.
func WithContainer(c di.Container) Option {
	return func(o *appOptions) { o.container = c }
}

// WithFactoryOptions passes options to the client factory.
func WithFactoryOptions(opts ...clientfactory.Option) Option {
	return func(o *appOptions) { o.factoryOptions = append(o.factoryOptions, opts...) }
}
