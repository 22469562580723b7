package di

import "fmt"

// MustResolve resolves a component with type safety, panics on error.
//
//	factory := di.MustResolve[*clientfactory.Factory](c, di.Names.ClientFactory)
func MustResolve[T any](c Container, key string) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Resolve resolves a component with type safety, returns error on failure.
// Construction errors are wrapped with %w so callers can inspect them.
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// TryResolve resolves an optional component. It returns false when the key is
// not registered, and any construction error otherwise.
func TryResolve[T any](c Container, key string) (T, bool, error) {
	var zero T
	if !c.Has(key) {
		return zero, false, nil
	}
	result, err := Resolve[T](c, key)
	if err != nil {
		return zero, false, err
	}
	return result, true, nil
}
