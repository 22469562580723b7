// Package component defines lifecycle interfaces for long-lived parts of a
// host application and a Registry that starts and stops them in order.
//
// The named-client factory implements Component, so hosts can stop it with
// the rest of their infrastructure:
//
//	reg := component.NewRegistry()
//	_ = reg.Register(factory)
//	_ = reg.StartAll(ctx)
//	defer reg.StopAll(ctx)
package component
