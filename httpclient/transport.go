package httpclient

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/http2"
)

// TransportConfig tunes the default transport built for each named client.
type TransportConfig struct {
	DialTimeout           time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	KeepAlive             time.Duration `yaml:"keep_alive" mapstructure:"keep_alive"`
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout" mapstructure:"tls_handshake_timeout"`
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout"`
	MaxIdleConns          int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns" validate:"gte=0"`
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host" validate:"gte=0"`
	MaxConnsPerHost       int           `yaml:"max_conns_per_host" mapstructure:"max_conns_per_host" validate:"gte=0"`
	ForceHTTP2            bool          `yaml:"force_http2" mapstructure:"force_http2"`
	DisableCompression    bool          `yaml:"disable_compression" mapstructure:"disable_compression"`

	// TLS configures the transport's TLS client settings.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`
}

var defaultTransport = sync.OnceValue(func() http.RoundTripper {
	t, _ := NewTransport(TransportConfig{})
	return t
})

// DefaultTransport returns the process-wide transport used by handlers that
// have no inner handler. It is created once and shared, so handler chains
// built repeatedly do not multiply connection pools.
func DefaultTransport() http.RoundTripper {
	return defaultTransport()
}

// NewTransport builds an *http.Transport with cfg applied over
// service-friendly defaults. It never copies state from http.DefaultTransport.
func NewTransport(cfg TransportConfig) (*http.Transport, error) {
	t := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: time.Second,
	}

	dialer := &net.Dialer{
		Timeout:   orDefault(cfg.DialTimeout, 5*time.Second),
		KeepAlive: orDefault(cfg.KeepAlive, 30*time.Second),
	}
	t.DialContext = dialer.DialContext
	t.TLSHandshakeTimeout = orDefault(cfg.TLSHandshakeTimeout, 5*time.Second)
	t.IdleConnTimeout = orDefault(cfg.IdleConnTimeout, 90*time.Second)
	t.DisableCompression = cfg.DisableCompression
	t.MaxIdleConns = 200
	if cfg.MaxIdleConns > 0 {
		t.MaxIdleConns = cfg.MaxIdleConns
	}
	t.MaxIdleConnsPerHost = 50
	if cfg.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}
	if cfg.MaxConnsPerHost > 0 {
		t.MaxConnsPerHost = cfg.MaxConnsPerHost
	}

	if cfg.TLS != nil {
		if err := cfg.TLS.Validate(); err != nil {
			return nil, err
		}
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			t.TLSClientConfig = tlsCfg
		}
	}

	if cfg.ForceHTTP2 {
		if _, err := http2.ConfigureTransports(t); err != nil {
			return nil, fmt.Errorf("httpclient: configure http2: %w", err)
		}
	}
	return t, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
