// Package typedclient registers typed HTTP clients in a client factory.
//
// A typed client is identified by its Go type. Register and RegisterType
// derive the client name from the type, attach a hook that builds the
// handler chain from Settings each time the factory constructs the client,
// and register a transient component that hands the finished client to a
// generator.
//
// # Settings
//
// Settings are resolved per construction, never at registration:
//
//	typedclient.Register[UsersAPI](factory, NewUsersAPI,
//	    typedclient.WithSettingsFactory(func(c di.Container) (*httpclient.Settings, error) {
//	        signer, err := di.Resolve[*jwt.Signer](c, "signer")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return &httpclient.Settings{TokenGetter: auth.WithScheme(auth.SchemeBearer, signer.Token)}, nil
//	    }),
//	)
//
// With no settings option the client uses the factory's transport and sends
// no Authorization header.
//
// # Resolution
//
//	users, err := typedclient.Resolve[UsersAPI](container)
package typedclient
