// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package token exports the expected interface of an access token
// issuer. After a successful login, the users use cases ask an Issuer
// to produce an opaque access token which identifies the logged in
// user. For the implementation, check the adapter layer.
package token

import (
	"time"

	"github.com/google/uuid"
)

// Issuer creates signed access tokens for authenticated users.
type Issuer interface {
	// Issue creates an access token for the userID user and returns
	// it together with its expiration time.
	Issue(userID uuid.UUID) (tok string, expiresAt time.Time, err error)
}
