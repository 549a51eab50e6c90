// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jwt implements the token.Issuer interface using the JSON Web
// Tokens which are signed by the HMAC-SHA256 (HS256) algorithm.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer of the project, as reported by the iss claim.
const issuerName = "cuweb"

// These errors are returned by the New function.
var (
	ErrEmptySecret = errors.New("token secret must be non-empty")
	ErrInvalidTTL  = errors.New("token ttl must be positive")
)

// Claims are the JWT claims of an access token. The user ID is stored
// as the standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer issues and parses HS256 access tokens. It implements the
// github.com/momeni/clean-users/pkg/core/token.Issuer interface.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option represents a functional option for the New function.
type Option func(*Issuer)

// WithClock makes the Issuer to use the given now function instead of
// time.Now for computing the issuing and expiration times.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// New instantiates an Issuer which signs tokens with the given secret
// and makes them valid for the ttl duration. The secret is copied.
func New(secret []byte, ttl time.Duration, opts ...Option) (
	*Issuer, error,
) {
	switch {
	case len(secret) == 0:
		return nil, ErrEmptySecret
	case ttl <= 0:
		return nil, ErrInvalidTTL
	}
	i := &Issuer{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue creates a signed access token for the userID user.
func (i *Issuer) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return s, exp, nil
}

// Parse validates the signature, algorithm, issuer, and expiration
// time of the tok access token and returns its user ID.
func (i *Issuer) Parse(tok string) (uuid.UUID, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tok, claims,
		func(*jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing token: %w", err)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing subject: %w", err)
	}
	return id, nil
}
