// Package rest provides JSON helpers over a finished httpclient.Client. Typed
// proxies use it to turn method calls into requests:
//
//	c := rest.New(client)
//
//	user, err := rest.Get[User](ctx, c, "/users/123")
//	created, err := rest.Post[User](ctx, c, "/users", CreateUserRequest{Name: "Alice"})
package rest
