// Package jwt mints short-lived service tokens for outgoing requests.
//
//	signer, err := jwt.NewSigner(&jwt.Config{Secret: "s3cret", Issuer: "orders"})
//	token, expiresAt, err := signer.Mint()
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the claims of a minted service token.
type Claims struct {
	gojwt.RegisteredClaims
}

// Signer mints service tokens. It is safe for concurrent use.
type Signer struct {
	cfg Config
	now func() time.Time
}

// NewSigner creates a signer from cfg after applying defaults.
func NewSigner(cfg *Config) (*Signer, error) {
	c := *cfg
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Signer{cfg: c, now: time.Now}, nil
}

// Mint signs a new token with a unique ID and returns it with its expiry.
func (s *Signer) Mint() (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TTL)
	claims := &Claims{RegisteredClaims: gojwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.cfg.Issuer,
		Subject:   s.cfg.Subject,
		Audience:  s.cfg.Audience,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(exp),
	}}

	signed, err := gojwt.NewWithClaims(methods[s.cfg.Method], claims).SignedString(s.cfg.signKey())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, exp, nil
}

// Token mints a token. It has the shape of a token getter.
func (s *Signer) Token(context.Context) (string, error) {
	tok, _, err := s.Mint()
	return tok, err
}

// Parse verifies a token minted with the same configuration.
func (s *Signer) Parse(tokenString string) (*Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{methods[s.cfg.Method].Alg()}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}

	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(*gojwt.Token) (any, error) {
		return s.cfg.verifyKey(), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("jwt: invalid token")
	}
	return claims, nil
}
