package httpclient

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kbukum/typedhttp/errors"
)

const headerAuthorization = "Authorization"

// HeaderAuthScheme carries an Authorization scheme from a request builder to
// the auth handlers. They prefix the token with it and strip the header
// before the request leaves the chain.
const HeaderAuthScheme = "X-Typedhttp-Auth-Scheme"

// RoundTripperFunc adapts a function to an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(r).
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// BuildHandler builds the primary handler described by s.
//
// It returns nil when s is nil or configures nothing, in which case the caller
// keeps its own default transport. A HandlerFactory error is returned as is.
func BuildHandler(s *Settings) (http.RoundTripper, error) {
	if s == nil {
		return nil, nil
	}

	var inner http.RoundTripper
	if s.HandlerFactory != nil {
		h, err := s.HandlerFactory()
		if err != nil {
			return nil, fmt.Errorf("httpclient: handler factory: %w", err)
		}
		inner = h
	}

	switch {
	case s.TokenGetter != nil:
		return &AuthHandler{Getter: s.TokenGetter, Next: inner}, nil
	case s.RequestTokenGetter != nil:
		return &ParamAuthHandler{Getter: s.RequestTokenGetter, Next: inner}, nil
	default:
		return inner, nil
	}
}

// AuthHandler sets the Authorization header from Getter on every request and
// delegates to Next, or to DefaultTransport when Next is nil.
type AuthHandler struct {
	Getter TokenGetter
	Next   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (h *AuthHandler) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := h.Getter(req.Context())
	if err != nil {
		return nil, abort(req, err)
	}
	return next(h.Next).RoundTrip(authorize(req, token))
}

// ParamAuthHandler sets the Authorization header from a getter that sees the
// outgoing request, then delegates like AuthHandler.
type ParamAuthHandler struct {
	Getter RequestTokenGetter
	Next   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (h *ParamAuthHandler) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := h.Getter(req)
	if err != nil {
		return nil, abort(req, err)
	}
	return next(h.Next).RoundTrip(authorize(req, token))
}

// Unwrap returns the inner handler, or nil when the chain ends at the default transport.
func (h *AuthHandler) Unwrap() http.RoundTripper { return h.Next }

// Unwrap returns the inner handler, or nil when the chain ends at the default transport.
func (h *ParamAuthHandler) Unwrap() http.RoundTripper { return h.Next }

func next(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return DefaultTransport()
	}
	return rt
}

// authorize returns a copy of req whose Authorization header is token,
// prefixed by the scheme in HeaderAuthScheme when one is set.
func authorize(req *http.Request, token string) *http.Request {
	out := req.Clone(req.Context())
	if scheme := strings.TrimSpace(out.Header.Get(HeaderAuthScheme)); scheme != "" {
		token = scheme + " " + token
	}
	out.Header.Del(HeaderAuthScheme)
	out.Header.Set(headerAuthorization, token)
	return out
}

// abort closes the request body, which a RoundTripper must do even on error.
func abort(req *http.Request, cause error) error {
	if req.Body != nil {
		_ = req.Body.Close()
	}
	return errors.TokenAcquisition(cause)
}
