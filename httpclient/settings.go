package httpclient

import (
	"context"
	"net/http"
)

// TokenGetter returns the Authorization header value for an outgoing request.
// The context carries cancellation only, not request data.
type TokenGetter func(ctx context.Context) (string, error)

// RequestTokenGetter returns the Authorization header value derived from the
// outgoing request itself.
type RequestTokenGetter func(req *http.Request) (string, error)

// Settings configures the handler chain of a typed client.
//
// All fields are optional. When both TokenGetter and RequestTokenGetter are
// set, TokenGetter is used and RequestTokenGetter is ignored.
type Settings struct {
	// HandlerFactory builds the innermost transport. Nil uses the default transport.
	HandlerFactory func() (http.RoundTripper, error)

	// TokenGetter supplies the Authorization value for every request.
	TokenGetter TokenGetter

	// RequestTokenGetter supplies the Authorization value per request.
	RequestTokenGetter RequestTokenGetter
}
