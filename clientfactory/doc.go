// Package clientfactory manages named HTTP clients.
//
// Each named client has construction hooks attached through a Builder. The
// hooks run when CreateClient needs a handler chain: on first use, after the
// handler lifetime elapsed, or after Invalidate. Until then the chain is
// shared by every client created for that name.
//
//	f := clientfactory.New(services, clientfactory.Config{})
//	f.AddClient("users").
//	    ConfigureClient(func(c *httpclient.ClientConfig) { c.BaseURL = "https://users.internal" }).
//	    AddHandler(logRequests)
//
//	client, err := f.CreateClient(ctx, "users")
//
// Chains whose primary handler is the factory-built transport close its idle
// connections when they are replaced.
package clientfactory
