// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidEmail indicates that an email address string may not be
// accepted. It does not
// repeat the invalid string because the caller already knows about it.
var ErrInvalidEmail = errors.New("invalid email address")

var validate = validator.New(validator.WithRequiredStructEnabled())

// CanonicalEmail converts the given email address into its canonical
// form by trimming the surrounding white spaces and lowercasing it.
// The canonical form is used as the identity token of the credentials,
// so it must be computed identically before generating and verifying
// a credential.
func CanonicalEmail(email string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	if err := ValidateEmail(e); err != nil {
		return "", err
	}
	return e, nil
}

// ValidateEmail checks the email syntax without changing it, using
// the email rule of the go-playground validator. Surrounding white
// spaces are not accepted, so CanonicalEmail should trim them first.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
