package typedclient

import (
	"maps"

	"github.com/kbukum/typedhttp/di"
	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/httpclient/rest"
)

// RequestBuilder carries the per-type request defaults handed to proxy
// generators. It is resolved once per container and shared by every proxy
// of the type.
type RequestBuilder struct {
	identity Identity
	headers  map[string]string
}

func newRequestBuilder(services di.Container, id Identity, o options) (*RequestBuilder, error) {
	b := &RequestBuilder{identity: id, headers: map[string]string{}}
	if o.authScheme == "" {
		return b, nil
	}
	s, err := o.settings.resolve(services, id)
	if err != nil {
		return nil, err
	}
	if s != nil && (s.TokenGetter != nil || s.RequestTokenGetter != nil) {
		b.headers[httpclient.HeaderAuthScheme] = o.authScheme
	}
	return b, nil
}

// Identity returns the identity of the typed client.
func (b *RequestBuilder) Identity() Identity {
	if b == nil {
		return Identity{}
	}
	return b.identity
}

// Headers returns a copy of the headers set on every request.
func (b *RequestBuilder) Headers() map[string]string {
	if b == nil {
		return map[string]string{}
	}
	return maps.Clone(b.headers)
}

// NewRequest returns a request for method and path with the default headers.
func (b *RequestBuilder) NewRequest(method, path string) httpclient.Request {
	return httpclient.Request{Method: method, Path: path, Headers: b.Headers()}
}

// Options returns REST request options applying the default headers
// followed by opts.
func (b *RequestBuilder) Options(opts ...rest.RequestOption) []rest.RequestOption {
	out := make([]rest.RequestOption, 0, len(opts)+1)
	if h := b.Headers(); len(h) > 0 {
		out = append(out, rest.WithHeaders(h))
	}
	return append(out, opts...)
}
