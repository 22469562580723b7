package jwt

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names a supported JWT signing algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
	RS256 SigningMethod = "RS256"
	RS512 SigningMethod = "RS512"
	ES256 SigningMethod = "ES256"
	ES384 SigningMethod = "ES384"
)

var methods = map[SigningMethod]gojwt.SigningMethod{
	HS256: gojwt.SigningMethodHS256,
	HS384: gojwt.SigningMethodHS384,
	HS512: gojwt.SigningMethodHS512,
	RS256: gojwt.SigningMethodRS256,
	RS512: gojwt.SigningMethodRS512,
	ES256: gojwt.SigningMethodES256,
	ES384: gojwt.SigningMethodES384,
}

// Config configures the service token signer.
type Config struct {
	// Secret is the HMAC key (required for HS* methods).
	Secret string `yaml:"secret" mapstructure:"secret"`

	// PrivateKey is the *rsa.PrivateKey or *ecdsa.PrivateKey for RS*/ES*.
	PrivateKey any `yaml:"-" mapstructure:"-"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `yaml:"method" mapstructure:"method"`

	// Issuer is the "iss" claim, usually the calling service.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// Subject is the "sub" claim (optional).
	Subject string `yaml:"subject" mapstructure:"subject"`

	// Audience is the "aud" claim, usually the called service (optional).
	Audience []string `yaml:"audience" mapstructure:"audience"`

	// TTL is the lifetime of minted tokens (default: 5m).
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
}

// Validate checks that the key matches the signing method.
func (c *Config) Validate() error {
	if _, ok := methods[c.Method]; !ok {
		return errors.New("jwt: unsupported signing method: " + string(c.Method))
	}
	if c.TTL < 0 {
		return errors.New("jwt: ttl must not be negative")
	}
	switch c.Method[0] {
	case 'H':
		if c.Secret == "" {
			return errors.New("jwt: secret is required for HMAC signing methods")
		}
	case 'R':
		if _, ok := c.PrivateKey.(*rsa.PrivateKey); !ok {
			return errors.New("jwt: private key must be *rsa.PrivateKey for RSA signing methods")
		}
	case 'E':
		if _, ok := c.PrivateKey.(*ecdsa.PrivateKey); !ok {
			return errors.New("jwt: private key must be *ecdsa.PrivateKey for ECDSA signing methods")
		}
	}
	return nil
}

func (c *Config) signKey() any {
	if c.Method[0] == 'H' {
		return []byte(c.Secret)
	}
	return c.PrivateKey
}

func (c *Config) verifyKey() any {
	switch k := c.PrivateKey.(type) {
	case *rsa.PrivateKey:
		return &k.PublicKey
	case *ecdsa.PrivateKey:
		return &k.PublicKey
	default:
		return []byte(c.Secret)
	}
}
