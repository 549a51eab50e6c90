// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// These errors report an unacceptable user field.
var (
	// ErrEmptyName indicates that a user name was empty (or contained
	// only white spaces) while a non-empty name was required.
	ErrEmptyName = errors.New("name must be non-empty")

	// ErrEmptyPassword indicates that a new password was empty.
	ErrEmptyPassword = errors.New("password must be non-empty")
)

// User models a registered user account which may be persisted in a
// database. The Credential field holds the derived representation of
// the user password and is never serialized for the web clients.
//
// The Email field is also the identity token which was used for the
// derivation of Credential, so changing it without deriving a fresh
// credential makes the stored credential unverifiable.
type User struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Credential Credential `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewUser contains the information which are provided by a client in
// order to register a new user. The Password is kept in plaintext only
// until a Credential is derived from it.
type NewUser struct {
	Name     string
	Email    string
	Password string
}

// UserPatch describes a partial update of a User. Nil fields are left
// unchanged. A non-nil Password causes the credential to be derived
// again (using the resulting email address as its identity token).
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
}

// IsEmpty reports whether the patch contains no change at all.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}

// NormalizeName trims the given name and returns ErrEmptyName if
// nothing remains.
func NormalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", ErrEmptyName
	}
	return n, nil
}

// Session is the result of a successful login. The AccessToken may be
// empty if no token issuer is configured.
type Session struct {
	User        *User     `json:"user"`
	AccessToken string    `json:"access_token,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}
