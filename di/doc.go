// Package di provides the dependency injection container that hosts typed
// HTTP clients.
//
// It supports eager, lazy, transient and singleton registrations with
// type-safe resolution through generics. Lazy constructors that fail return
// their error to the caller and are tried again on the next resolve.
//
// # Registration
//
//	c := di.NewContainer()
//	c.RegisterSingleton(di.Names.Config, cfg)
//	c.RegisterTransient("users", func(c di.Container) (UsersAPI, error) { ... })
//
// # Resolution
//
//	users, err := di.Resolve[UsersAPI](c, "users")
package di
