package auth

import (
	"context"
	"fmt"

	"github.com/kbukum/typedhttp/auth/jwt"
	"github.com/kbukum/typedhttp/httpclient"
)

// Auth types.
const (
	TypeNone   = "none"
	TypeStatic = "static"
	TypeBearer = "bearer"
	TypeBasic  = "basic"
	TypeJWT    = "jwt"
)

// Config describes how a named client authenticates. It is loaded from
// YAML/env via mapstructure like every other config section.
type Config struct {
	// Type selects the getter: none, static, bearer, basic or jwt.
	Type string `yaml:"type" mapstructure:"type" validate:"omitempty,oneof=none static bearer basic jwt"`

	// Token is the value for static and bearer.
	Token string `yaml:"token" mapstructure:"token"`

	// Username and Password are used by basic.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// JWT configures self-signed service tokens (nil if not used).
	JWT *jwt.Config `yaml:"jwt" mapstructure:"jwt"`
}

// ApplyDefaults sets sensible defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = TypeNone
	}
	if c.JWT != nil {
		c.JWT.ApplyDefaults()
	}
}

// Validate checks that the fields required by Type are present.
func (c *Config) Validate() error {
	switch c.Type {
	case "", TypeNone:
		return nil
	case TypeStatic, TypeBearer:
		if c.Token == "" {
			return fmt.Errorf("auth: token is required for %s", c.Type)
		}
	case TypeBasic:
		if c.Username == "" {
			return fmt.Errorf("auth: username is required for basic")
		}
	case TypeJWT:
		if c.JWT == nil {
			return fmt.Errorf("auth: jwt section is required for jwt")
		}
		if err := c.JWT.Validate(); err != nil {
			return fmt.Errorf("auth.jwt: %w", err)
		}
	default:
		return fmt.Errorf("auth: unsupported type %q", c.Type)
	}
	return nil
}

// TokenGetter builds the getter described by c. It returns nil for none.
func (c *Config) TokenGetter() (httpclient.TokenGetter, error) {
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Type {
	case TypeStatic:
		return Static(c.Token), nil
	case TypeBearer:
		return Bearer(c.Token), nil
	case TypeBasic:
		return Basic(c.Username, c.Password), nil
	case TypeJWT:
		signer, err := jwt.NewSigner(c.JWT)
		if err != nil {
			return nil, err
		}
		cache := NewCachedToken(func(context.Context) (Token, error) {
			v, exp, err := signer.Mint()
			return Token{Value: v, ExpiresAt: exp}, err
		})
		return WithScheme(SchemeBearer, cache.Getter()), nil
	default:
		return nil, nil
	}
}

// Settings returns handler settings using the configured getter, or nil when
// no authentication is configured.
func (c *Config) Settings() (*httpclient.Settings, error) {
	get, err := c.TokenGetter()
	if err != nil || get == nil {
		return nil, err
	}
	return &httpclient.Settings{TokenGetter: get}, nil
}

// Describe returns a human-readable one-liner that never includes secrets.
func (c *Config) Describe() string {
	switch c.Type {
	case "", TypeNone:
		return "none"
	case TypeBasic:
		return fmt.Sprintf("basic(%s)", c.Username)
	case TypeJWT:
		if c.JWT != nil {
			return fmt.Sprintf("jwt(%s) ttl=%s", c.JWT.Method, c.JWT.TTL)
		}
		return "jwt"
	default:
		return c.Type
	}
}
