// Package bootstrap hosts typed HTTP clients in a service.
//
// NewApp loads nothing by itself: it takes a config (usually from
// config.Load), initializes logging and the optional OTLP providers, creates
// the DI container and the client factory and registers both as lifecycle
// components. RegisterClient binds a typed client to its clients.<name>
// config section.
package bootstrap
