// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram derives SCRAM-SHA-256 and SCRAM-SHA-1 verifiers for
// the database role passwords using the github.com/xdg-go/scram module.
// A Mechanism is selected by the PostgreSQL authentication method name
// (see ForAuthMethod) and reifies the core scram.Hasher interface.
package scram

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/xdg-go/scram"
)

// MinIterations is the minimum accepted iterations count (RFC 5802).
const MinIterations = 4096

// ErrEmptyPassword is returned when a verifier is asked for an empty
// password.
var ErrEmptyPassword = errors.New("password must be non-empty")

// Mechanism is a SCRAM variant with a fixed underlying hash function.
type Mechanism struct {
	gen     scram.HashGeneratorFcn
	saltLen int
	name    string
}

// ForAuthMethod returns the Mechanism of a PostgreSQL authentication
// method, i.e., scram-sha-1 or scram-sha-256. An empty method selects
// scram-sha-256.
func ForAuthMethod(method string) (*Mechanism, error) {
	switch method {
	case "scram-sha-1":
		return SHA1(), nil
	case "", "scram-sha-256":
		return SHA256(), nil
	}
	return nil, fmt.Errorf(
		"unsupported database authentication method: %q", method,
	)
}

// SHA1 returns the SCRAM-SHA-1 Mechanism.
func SHA1() *Mechanism {
	return &Mechanism{gen: scram.SHA1, saltLen: 20, name: "SCRAM-SHA-1"}
}

// SHA256 returns the SCRAM-SHA-256 Mechanism.
func SHA256() *Mechanism {
	return &Mechanism{
		gen: scram.SHA256, saltLen: 32, name: "SCRAM-SHA-256",
	}
}

// Verifier derives the verifier of pass with a random salt which has
// the same length as the underlying hash output.
func (m *Mechanism) Verifier(pass string, iters int) (string, error) {
	salt := make([]byte, m.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("creating random salt: %w", err)
	}
	return m.VerifierWithSalt(pass, salt, iters)
}

// VerifierWithSalt is like Verifier, but uses the given salt, so its
// result is deterministic. The pass is normalized by SASLprep (RFC
// 4013) and normalization failures are reported as errors.
func (m *Mechanism) VerifierWithSalt(
	pass string, salt []byte, iters int,
) (string, error) {
	switch {
	case pass == "":
		return "", ErrEmptyPassword
	case len(salt) == 0:
		return "", errors.New("salt must be non-empty")
	case iters < MinIterations:
		return "", fmt.Errorf(
			"iters (%d) is less than %d", iters, MinIterations,
		)
	}
	// verifiers do not depend on the username
	c, err := m.gen.NewClient("cuweb", pass, "")
	if err != nil {
		return "", fmt.Errorf("creating SCRAM client: %w", err)
	}
	sc := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(salt),
		Iters: iters,
	})
	b64 := base64.StdEncoding.EncodeToString
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s", m.name, iters,
		b64(salt), b64(sc.StoredKey), b64(sc.ServerKey),
	), nil
}
