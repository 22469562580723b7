package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/typedhttp/clientfactory"
	"github.com/kbukum/typedhttp/logger"
	"github.com/kbukum/typedhttp/observability"
	"github.com/kbukum/typedhttp/validation"
)

// Environments accepted by ServiceConfig.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig is the configuration of a service calling typed clients.
// Projects embed it in their own config structs.
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Feature FeatureConfig `yaml:"feature" mapstructure:"feature"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`

	// HTTP configures the client factory.
	HTTP clientfactory.Config `yaml:"http" mapstructure:"http"`

	// Clients holds per-client settings keyed by client name.
	Clients map[string]ClientConfig `yaml:"clients" mapstructure:"clients" validate:"dive"`

	// Tracing and Metrics are optional OTLP exporters.
	Tracing *observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics *observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// GetServiceConfig returns the embedded ServiceConfig.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults fills in zero-value fields. Embedding structs overriding it
// call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	if c.Tracing != nil {
		c.HTTP.Tracing = true
		if c.Tracing.ServiceName == "" {
			c.Tracing.ServiceName = c.Name
		}
		if c.Tracing.ServiceVersion == "" {
			c.Tracing.ServiceVersion = c.Version
		}
		if c.Tracing.Environment == "" {
			c.Tracing.Environment = c.Environment
		}
	}
	if c.Metrics != nil {
		if c.Metrics.ServiceName == "" {
			c.Metrics.ServiceName = c.Name
		}
		if c.Metrics.ServiceVersion == "" {
			c.Metrics.ServiceVersion = c.Version
		}
		if c.Metrics.Environment == "" {
			c.Metrics.Environment = c.Environment
		}
	}
	for name, client := range c.Clients {
		client.Auth.ApplyDefaults()
		c.Clients[name] = client
	}
}

// Validate checks the configuration.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if !slices.Contains(Environments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", Environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	for name, client := range c.Clients {
		if err := client.Auth.Validate(); err != nil {
			return fmt.Errorf("config.clients.%s: %w", name, err)
		}
	}
	return nil
}

// Client returns the configuration of the named client.
func (c *ServiceConfig) Client(name string) (ClientConfig, bool) {
	client, ok := c.Clients[name]
	return client, ok
}
