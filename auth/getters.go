package auth

import (
	"context"
	"encoding/base64"

	"github.com/kbukum/typedhttp/httpclient"
)

// Static returns a getter that always yields value unchanged.
func Static(value string) httpclient.TokenGetter {
	return func(context.Context) (string, error) { return value, nil }
}

// Bearer returns a getter yielding "Bearer <token>".
func Bearer(token string) httpclient.TokenGetter {
	return Static(SchemeBearer + " " + token)
}

// Basic returns a getter yielding HTTP basic credentials.
func Basic(username, password string) httpclient.TokenGetter {
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return Static(SchemeBasic + " " + creds)
}

// WithScheme prefixes every value returned by get with scheme.
func WithScheme(scheme string, get httpclient.TokenGetter) httpclient.TokenGetter {
	return func(ctx context.Context) (string, error) {
		token, err := get(ctx)
		if err != nil {
			return "", err
		}
		return scheme + " " + token, nil
	}
}

// Authorization schemes.
const (
	SchemeBearer = "Bearer"
	SchemeBasic  = "Basic"
)
