package typedclient

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/typedhttp/clientfactory"
	"github.com/kbukum/typedhttp/di"
	"github.com/kbukum/typedhttp/errors"
	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/logger"
)

// produceFunc builds the typed instance from a finished client.
type produceFunc func(client *httpclient.Client, rb *RequestBuilder) (any, error)

// Register registers a typed client of T with f. The handler chain is built
// from the configured settings each time f constructs the client; nothing is
// resolved at registration.
//
//	typedclient.Register[UsersAPI](factory, NewUsersAPI,
//	    typedclient.WithSettings(&httpclient.Settings{TokenGetter: auth.Bearer(token)}),
//	    typedclient.WithClientConfig(httpclient.ClientConfig{BaseURL: "https://users.internal"}),
//	)
func Register[T any](f *clientfactory.Factory, gen Generator[T], opts ...Option) (*clientfactory.Builder, error) {
	if gen == nil {
		return nil, errors.InvalidType("generator is nil")
	}
	return register(f, reflect.TypeFor[T](), newOptions(opts), func(client *httpclient.Client, rb *RequestBuilder) (any, error) {
		return gen(client, rb)
	})
}

// RegisterType registers a typed client for the runtime type t with f.
// It behaves like Register.
func RegisterType(f *clientfactory.Factory, t reflect.Type, gen ProxyGenerator, opts ...Option) (*clientfactory.Builder, error) {
	if gen == nil {
		return nil, errors.InvalidType("proxy generator is nil")
	}
	return register(f, t, newOptions(opts), func(client *httpclient.Client, rb *RequestBuilder) (any, error) {
		return gen.Produce(t, client, rb)
	})
}

// register is the single registration path behind Register and RegisterType.
func register(f *clientfactory.Factory, t reflect.Type, o options, produce produceFunc) (*clientfactory.Builder, error) {
	if f == nil {
		return nil, errors.InvalidType("client factory is nil")
	}
	id, err := IdentityOf(t)
	if err != nil {
		return nil, err
	}

	services := f.Services()
	rbKey := requestBuilderKey(id)
	if err := services.RegisterLazy(rbKey, func(c di.Container) (*RequestBuilder, error) {
		return newRequestBuilder(c, id, o)
	}); err != nil {
		return nil, fmt.Errorf("typedclient: register %s: %w", id.Name, err)
	}

	b := f.AddClient(id.Name)
	b.ConfigureHandlerBuilder(func(hb *clientfactory.HandlerBuilder) error {
		s, err := o.settings.resolve(hb.Services, id)
		if err != nil {
			return err
		}
		h, err := httpclient.BuildHandler(s)
		if err != nil {
			return err
		}
		if h != nil {
			hb.PrimaryHandler = h
		}
		return nil
	})
	if o.client != nil {
		b.ConfigureClient(o.merge)
	}
	if o.lifetime != nil {
		b.SetHandlerLifetime(*o.lifetime)
	}
	b.AddTypedClient(func(client *httpclient.Client, services di.Container) (any, error) {
		rb, _, err := di.TryResolve[*RequestBuilder](services, rbKey)
		if err != nil {
			return nil, err
		}
		v, err := produce(client, rb)
		if err != nil {
			return nil, fmt.Errorf("typedclient: generate %s: %w", id.Name, err)
		}
		if v == nil || !reflect.TypeOf(v).AssignableTo(t) {
			return nil, errors.InvalidProxy(id.Name, v)
		}
		return v, nil
	})

	logger.Get("typedclient").Debug("typed client registered", logger.Fields(
		logger.FieldClient, id.Name,
		"id", id.ID.String(),
		"configured", o.client != nil,
		"auth_scheme", o.authScheme,
	))
	return b, nil
}

// Resolve returns a typed client of T from services. Each call binds the
// instance to the currently active handler chain.
func Resolve[T any](services di.Container) (T, error) {
	return ResolveContext[T](context.Background(), services)
}

// ResolveContext is Resolve with a context passed to handler construction.
func ResolveContext[T any](ctx context.Context, services di.Container) (T, error) {
	var zero T
	v, err := ResolveTypeContext(ctx, services, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// ResolveType returns a typed client for t from services.
func ResolveType(services di.Container, t reflect.Type) (any, error) {
	return ResolveTypeContext(context.Background(), services, t)
}

// ResolveTypeContext is ResolveType with a context passed to handler
// construction. A cancelled ctx still returns a client whose chain is
// active but never starts a new construction.
func ResolveTypeContext(ctx context.Context, services di.Container, t reflect.Type) (any, error) {
	id, err := IdentityOf(t)
	if err != nil {
		return nil, err
	}
	if !services.Has(id.Name) {
		return nil, errors.NotRegistered(id.Name)
	}
	v, err := services.ResolveContext(ctx, id.Name)
	if err != nil {
		return nil, err
	}
	if v == nil || !reflect.TypeOf(v).AssignableTo(t) {
		return nil, errors.InvalidProxy(id.Name, v)
	}
	return v, nil
}
