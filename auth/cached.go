package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/logger"
)

// Token is a fetched credential and the time it stops being usable.
// A zero ExpiresAt never expires.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// FetchFunc obtains a fresh token, for example from an OAuth2 token endpoint.
type FetchFunc func(ctx context.Context) (Token, error)

// CachedToken caches the token returned by a FetchFunc until it is about to
// expire. Concurrent callers share one fetch.
type CachedToken struct {
	fetch  FetchFunc
	leeway time.Duration
	now    func() time.Time

	mu      sync.Mutex
	current Token
	valid   bool
}

// CachedTokenOption configures a CachedToken.
type CachedTokenOption func(*CachedToken)

// WithLeeway refreshes the token this long before it expires. Defaults to 30s.
func WithLeeway(d time.Duration) CachedTokenOption {
	return func(c *CachedToken) { c.leeway = d }
}

// WithNow sets the clock used for expiry checks.
func WithNow(now func() time.Time) CachedTokenOption {
	return func(c *CachedToken) { c.now = now }
}

// NewCachedToken creates a cache around fetch.
func NewCachedToken(fetch FetchFunc, opts ...CachedTokenOption) *CachedToken {
	c := &CachedToken{fetch: fetch, leeway: 30 * time.Second, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the cached token, fetching a new one when none is cached or
// the cached one is within the leeway of its expiry.
func (c *CachedToken) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.fresh() {
		return c.current.Value, nil
	}

	tok, err := c.fetch(ctx)
	if err != nil {
		c.valid = false
		return "", err
	}
	if tok.Value == "" {
		c.valid = false
		return "", errors.New("auth: fetched token is empty")
	}
	c.current, c.valid = tok, true

	logger.Get("auth").Debug("token refreshed", logger.Fields(
		"expires_at", tok.ExpiresAt,
	))
	return tok.Value, nil
}

// Invalidate drops the cached token; the next call fetches again.
func (c *CachedToken) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// Getter adapts the cache to a TokenGetter.
func (c *CachedToken) Getter() httpclient.TokenGetter {
	return c.Token
}

func (c *CachedToken) fresh() bool {
	if c.current.ExpiresAt.IsZero() {
		return true
	}
	return c.now().Add(c.leeway).Before(c.current.ExpiresAt)
}
