package config

import (
	"time"

	"github.com/kbukum/typedhttp/auth"
	"github.com/kbukum/typedhttp/httpclient"
)

// ClientConfig configures one named client.
type ClientConfig struct {
	BaseURL   string            `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Headers   map[string]string `yaml:"headers" mapstructure:"headers"`
	UserAgent string            `yaml:"user_agent" mapstructure:"user_agent"`

	// HandlerLifetime overrides http.handler_lifetime when non-zero.
	HandlerLifetime time.Duration `yaml:"handler_lifetime" mapstructure:"handler_lifetime"`

	// Auth selects the token getter of the client.
	Auth auth.Config `yaml:"auth" mapstructure:"auth"`
}

// HTTP returns the request defaults of the client.
func (c ClientConfig) HTTP() httpclient.ClientConfig {
	return httpclient.ClientConfig{
		BaseURL:   c.BaseURL,
		Headers:   c.Headers,
		UserAgent: c.UserAgent,
	}.Clone()
}

// Settings returns the handler settings described by Auth, or nil when the
// client is unauthenticated.
func (c ClientConfig) Settings() (*httpclient.Settings, error) {
	return c.Auth.Settings()
}
