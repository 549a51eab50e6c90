// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersuc

import (
	"errors"

	"github.com/momeni/clean-users/pkg/core/token"
)

// Option is a functional option for the users use case.
type Option func(uc *UseCase) error

// WithCanonicalEmails option configures a users UseCase instance in
// order to canonicalize the email addresses (i.e., trim and lowercase
// them) before using them as the identity tokens of the credentials
// or querying the database. Without this option, email addresses are
// only validated and used as they are given.
func WithCanonicalEmails() Option {
	return func(uc *UseCase) error {
		if uc.canonicalEmails {
			return errors.New("canonical emails are already enabled")
		}
		uc.canonicalEmails = true
		return nil
	}
}

// WithTokenIssuer option configures a users UseCase instance in order
// to issue access tokens after successful logins. Without this option,
// the Login use case only verifies the credentials.
func WithTokenIssuer(i token.Issuer) Option {
	return func(uc *UseCase) error {
		if i == nil {
			return errors.New("token issuer must be non-nil")
		}
		if uc.issuer != nil {
			return errors.New("token issuer is already configured")
		}
		uc.issuer = i
		return nil
	}
}
