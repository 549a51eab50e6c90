// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram declares how the database initialization use case
// expects to obtain Salted Challenge Response Authentication Mechanism
// (SCRAM) verifiers for the database role passwords. Verifiers are sent
// to the DBMS in place of the plaintext passwords, so logging of the
// relevant DDL queries does not leak them.
//
// SCRAM verifiers are also derived with PBKDF2, but they are unrelated
// to the users credentials. See the credential package for the latter.
package scram

// Hasher computes SCRAM verifiers in the format which is accepted by
// the PostgreSQL ALTER ROLE ... PASSWORD statement:
//
//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
type Hasher interface {
	// Verifier derives the verifier of the non-empty pass password
	// using a fresh random salt and the given iterations count.
	Verifier(pass string, iters int) (string, error)
}
