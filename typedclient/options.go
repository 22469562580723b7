package typedclient

import (
	"time"

	"github.com/kbukum/typedhttp/config"
	"github.com/kbukum/typedhttp/di"
	"github.com/kbukum/typedhttp/httpclient"
)

type options struct {
	settings   SettingsFactory
	client     *httpclient.ClientConfig
	authScheme string
	lifetime   *time.Duration
}

func newOptions(opts []Option) options {
	o := options{settings: noSettings}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a registration.
type Option func(*options)

// WithSettings uses s for every handler construction.
func WithSettings(s *httpclient.Settings) Option {
	return func(o *options) { o.settings = StaticSettings(s) }
}

// WithSettingsFactory resolves settings on every handler construction.
// A nil factory means no settings.
func WithSettingsFactory(f SettingsFactory) Option {
	return func(o *options) {
		if f == nil {
			f = noSettings
		}
		o.settings = f
	}
}

// WithClientConfig sets the base URL and default headers of the client.
// Empty fields keep the factory defaults.
func WithClientConfig(cfg httpclient.ClientConfig) Option {
	return func(o *options) {
		c := cfg.Clone()
		o.client = &c
	}
}

// WithAuthScheme makes the request builder mark requests of authenticated
// clients with scheme, e.g. "Bearer". The auth handler sends
// "<scheme> <token>".
func WithAuthScheme(scheme string) Option {
	return func(o *options) { o.authScheme = scheme }
}

// WithHandlerLifetime overrides the factory's handler lifetime for the client.
func WithHandlerLifetime(d time.Duration) Option {
	return func(o *options) { o.lifetime = &d }
}

// WithConfig applies a loaded client configuration: base URL, headers,
// handler lifetime and the token getter selected by its auth section.
// Settings are built on every handler construction.
func WithConfig(c config.ClientConfig) Option {
	if c.Auth.JWT != nil {
		jwt := *c.Auth.JWT
		c.Auth.JWT = &jwt
	}
	c.Auth.ApplyDefaults()
	return func(o *options) {
		WithClientConfig(c.HTTP())(o)
		if c.HandlerLifetime != 0 {
			WithHandlerLifetime(c.HandlerLifetime)(o)
		}
		o.settings = func(di.Container) (*httpclient.Settings, error) {
			return c.Settings()
		}
	}
}

// merge applies the non-empty fields of o.client to cfg.
func (o options) merge(cfg *httpclient.ClientConfig) {
	if o.client == nil {
		return
	}
	if o.client.BaseURL != "" {
		cfg.BaseURL = o.client.BaseURL
	}
	if o.client.UserAgent != "" {
		cfg.UserAgent = o.client.UserAgent
	}
	if len(o.client.Headers) == 0 {
		return
	}
	*cfg = cfg.Clone()
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string, len(o.client.Headers))
	}
	for k, v := range o.client.Headers {
		cfg.Headers[k] = v
	}
}
