// Package httpclient builds the handler chain of a named HTTP client from
// optional Settings and provides the finished Client bound to that chain.
//
// BuildHandler decides which authentication handler, if any, wraps which
// inner transport:
//
//	rt, err := httpclient.BuildHandler(&httpclient.Settings{
//	    TokenGetter: func(ctx context.Context) (string, error) {
//	        return "Bearer " + token, nil
//	    },
//	})
//
//	client := httpclient.NewClient("users", rt, httpclient.ClientConfig{
//	    BaseURL: "https://api.example.com",
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/users/123",
//	})
//
// A nil result from BuildHandler means the caller keeps its default transport.
// Handlers without an inner handler delegate to DefaultTransport, which is
// shared by the whole process.
package httpclient
