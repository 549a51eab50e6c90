// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pbkdf2 presents an implementation of the credential manager
// based on the PBKDF2 key derivation function (as defined in RFC 8018)
// using HMAC-SHA256 as its pseudo random function. See the New function
// for its instantiation logic.
//
// A per-identity salt is derived by hashing the deployment wide
// database salt followed by the identity token. Therefore, credentials
// which are leaked from one deployment may not be attacked with a
// rainbow table which was computed for another deployment, and each
// user needs a distinct dictionary attack.
package pbkdf2

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/momeni/clean-users/pkg/core/model"
	"golang.org/x/crypto/pbkdf2"
)

// SaltLen is the mandatory length of the database salt in bytes.
const SaltLen = 16

// ErrZeroIterations indicates that the iterations count was zero.
var ErrZeroIterations = errors.New("iterations must be positive")

// SaltLengthError indicates that a database salt with a wrong length
// was passed to the New function. Its value is the actual length.
type SaltLengthError int

// Error implements the error interface.
func (e SaltLengthError) Error() string {
	return fmt.Sprintf(
		"database salt must be %d bytes, but got %d bytes",
		SaltLen, int(e),
	)
}

// Manager is a PBKDF2-HMAC-SHA256 credential manager. It implements the
// github.com/momeni/clean-users/pkg/core/credential.Manager interface,
// so it may be used in the use cases layer without any dependency on
// the actual implementation. A Manager is immutable and may be used
// concurrently.
type Manager struct {
	iterations int
	dbSalt     [SaltLen]byte
}

// New instantiates a Manager which runs the given number of PBKDF2
// iterations for each derivation. The dbSalt must be exactly SaltLen
// bytes. It is copied, so later changes of the dbSalt slice have no
// effect on the returned Manager.
//
// A zero iterations count causes ErrZeroIterations and a wrong salt
// length causes a SaltLengthError to be returned.
func New(iterations uint32, dbSalt []byte) (*Manager, error) {
	if iterations == 0 {
		return nil, ErrZeroIterations
	}
	if len(dbSalt) != SaltLen {
		return nil, SaltLengthError(len(dbSalt))
	}
	m := &Manager{iterations: int(iterations)}
	copy(m.dbSalt[:], dbSalt)
	return m, nil
}

// Iterations returns the configured PBKDF2 iterations count.
func (m *Manager) Iterations() uint32 {
	return uint32(m.iterations)
}

// Generate derives a model.CredentialLen bytes credential from the
// password using the salt which is derived for the identity token.
func (m *Manager) Generate(identity, password []byte) model.Credential {
	salt := m.salt(identity)
	return pbkdf2.Key(
		password, salt[:], m.iterations, model.CredentialLen, sha256.New,
	)
}

// Verify derives a credential from the attempted password and compares
// it with the stored credential in constant time. The stored credential
// length is checked without returning early, so a malformed credential
// costs as much as a mismatching one.
func (m *Manager) Verify(
	identity []byte, stored model.Credential, attempted []byte,
) bool {
	candidate := m.Generate(identity, attempted)
	var expected [model.CredentialLen]byte
	copy(expected[:], stored)
	l := min(len(stored), model.CredentialLen+1)
	lenOK := subtle.ConstantTimeEq(int32(l), model.CredentialLen)
	return subtle.ConstantTimeCompare(candidate, expected[:])&lenOK == 1
}

// salt computes SHA-256(dbSalt || identity).
func (m *Manager) salt(identity []byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write(m.dbSalt[:])
	h.Write(identity)
	var s [sha256.Size]byte
	h.Sum(s[:0])
	return s
}
