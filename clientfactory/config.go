package clientfactory

import (
	"time"

	"github.com/kbukum/typedhttp/errors"
	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/validation"
	"github.com/kbukum/typedhttp/version"
)

// DefaultHandlerLifetime is how long a constructed handler chain is reused
// before the next CreateClient builds a new one.
const DefaultHandlerLifetime = 2 * time.Minute

// Config configures a Factory.
type Config struct {
	// HandlerLifetime is the reuse period of a handler chain. Zero means
	// DefaultHandlerLifetime; a negative value disables rotation.
	HandlerLifetime time.Duration `yaml:"handler_lifetime" mapstructure:"handler_lifetime"`

	// Transport tunes the primary handler built for each construction.
	Transport httpclient.TransportConfig `yaml:"transport" mapstructure:"transport"`

	// Tracing wraps every chain in the OpenTelemetry transport.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`

	// UserAgent is the default User-Agent of every client.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.HandlerLifetime == 0 {
		c.HandlerLifetime = DefaultHandlerLifetime
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Transport.TLS.Validate(); err != nil {
		return errors.InvalidConfig("transport tls: " + err.Error()).WithCause(err)
	}
	return nil
}
