// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"log/slog"
	"strings"
)

// Valuer returns an Attr for the given slog.LogValuer value.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an Attr for the given error value.
// The error value is resolved as a string by its Error() method.
// If error value is nil, the constant "no-error" value will be used.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// Email returns an Attr for the given email address, masking its local
// part except for the first character. Only the domain part remains
// visible, so logs may be grouped by domains without disclosing users.
// A string without an @ sign is masked entirely.
func Email(key, email string) slog.Attr {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return slog.String(key, "***")
	}
	return slog.String(key, local[:1]+"***@"+domain)
}
