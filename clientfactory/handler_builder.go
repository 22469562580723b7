package clientfactory

import (
	"net/http"

	"github.com/kbukum/typedhttp/di"
)

// Middleware wraps a handler with another one.
type Middleware func(next http.RoundTripper) http.RoundTripper

// HandlerBuilder is handed to ConfigureHandlerBuilder hooks during one
// construction of a named client's handler chain.
type HandlerBuilder struct {
	// Name is the named client being constructed.
	Name string

	// Services is the container used to resolve dependencies of the hooks.
	Services di.Container

	// PrimaryHandler is the innermost handler. It starts as a new transport
	// built from the factory's transport configuration.
	PrimaryHandler http.RoundTripper

	// AdditionalHandlers wrap PrimaryHandler; the first one is outermost.
	AdditionalHandlers []Middleware
}

// Build returns PrimaryHandler wrapped by AdditionalHandlers.
func (b *HandlerBuilder) Build() http.RoundTripper {
	h := b.PrimaryHandler
	for i := len(b.AdditionalHandlers) - 1; i >= 0; i-- {
		h = b.AdditionalHandlers[i](h)
	}
	return h
}
