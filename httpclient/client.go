package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ClientConfig holds the request defaults of a named client.
type ClientConfig struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	// Headers are sent with every request unless the request overrides them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// UserAgent is sent when no User-Agent header is configured.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// Clone returns a deep copy of c.
func (c ClientConfig) Clone() ClientConfig {
	out := c
	if c.Headers != nil {
		out.Headers = make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			out.Headers[k] = v
		}
	}
	return out
}

// Client is a finished named client bound to one handler chain.
type Client struct {
	name       string
	httpClient *http.Client
	config     ClientConfig
}

// NewClient creates a Client named name that sends requests through rt.
// A nil rt uses DefaultTransport.
func NewClient(name string, rt http.RoundTripper, cfg ClientConfig) *Client {
	return &Client{
		name:       name,
		httpClient: &http.Client{Transport: next(rt)},
		config:     cfg.Clone(),
	}
}

// Name returns the registration name of the client.
func (c *Client) Name() string { return c.name }

// Config returns a copy of the client's request defaults.
func (c *Client) Config() ClientConfig { return c.config.Clone() }

// Transport returns the handler chain requests are sent through.
func (c *Client) Transport() http.RoundTripper { return c.httpClient.Transport }

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client { return c.httpClient }

// Do executes an HTTP request and returns the complete response. Non-2xx
// responses are returned together with a classified *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.NewRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, transportError(ErrCodeCanceled, err)
		}
		return nil, transportError(ErrCodeConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ErrCodeConnection, fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}
	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}
	return result, nil
}

// NewRequest builds the *http.Request Do would send for req.
func (c *Client) NewRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, req.Body)
	if err != nil {
		return nil, transportError(ErrCodeInvalidRequest, fmt.Errorf("create request: %w", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.Body != nil && req.ContentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	return httpReq, nil
}
