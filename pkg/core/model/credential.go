// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "log/slog"

// CredentialLen is the length of a well-formed Credential in bytes.
// It matches the output length of the SHA-256 digest.
const CredentialLen = 256 / 8

// Credential is the irreversible derived representation of a password
// which is safe to be persisted. A Credential which is read from a
// database may be malformed (e.g., having a wrong length) and such a
// value is simply a credential which matches no password.
type Credential []byte

// String returns a constant placeholder, so credentials may not leak
// into the formatted messages accidentally.
func (c Credential) String() string {
	return "[redacted]"
}

// LogValue implements slog.LogValuer and hides the credential bytes.
func (c Credential) LogValue() slog.Value {
	return slog.StringValue("[redacted]")
}
