// Package auth provides token getters for named clients.
//
//   - Static, Bearer, Basic: fixed Authorization values
//   - CachedToken: caches a fetched token until shortly before it expires
//   - auth/jwt: self-signed service tokens minted per request
//   - Config: selects one of the above from configuration
//
// Every getter plugs into httpclient.Settings:
//
//	cache := auth.NewCachedToken(fetchFromIdP)
//	settings := &httpclient.Settings{
//	    TokenGetter: auth.WithScheme(auth.SchemeBearer, cache.Getter()),
//	}
//
// Or from configuration:
//
//	clients:
//	  users:
//	    auth:
//	      type: jwt
//	      jwt:
//	        secret: "my-secret"
//	        issuer: "orders-service"
//	        ttl: "5m"
package auth
