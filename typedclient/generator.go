package typedclient

import (
	"reflect"

	"github.com/kbukum/typedhttp/httpclient"
)

// Generator produces a typed client of T from a finished client.
type Generator[T any] func(client *httpclient.Client, rb *RequestBuilder) (T, error)

// ProxyGenerator produces a typed client for a runtime type. The result must
// be assignable to t.
type ProxyGenerator interface {
	Produce(t reflect.Type, client *httpclient.Client, rb *RequestBuilder) (any, error)
}

// ProxyGeneratorFunc adapts a function to a ProxyGenerator.
type ProxyGeneratorFunc func(t reflect.Type, client *httpclient.Client, rb *RequestBuilder) (any, error)

// Produce calls f.
func (f ProxyGeneratorFunc) Produce(t reflect.Type, client *httpclient.Client, rb *RequestBuilder) (any, error) {
	return f(t, client, rb)
}
