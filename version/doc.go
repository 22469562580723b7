// Package version reports the library version, used for the default
// User-Agent of named clients.
//
// The version is read from the binary's module graph. It can be pinned at
// compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/typedhttp/version.Version=v1.0.0"
package version
