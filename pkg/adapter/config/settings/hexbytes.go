// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"encoding/hex"
	"fmt"
	"log/slog"
)

// HexBytes is a byte slice which is represented as a hex encoded
// string in the configuration files and environment variables.
// Its contents are usually secret, so it is never logged.
type HexBytes []byte

// UnmarshalText reifies the encoding.TextUnmarshaler interface, so
// a hex string (e.g., read from a YAML file) can be decoded as a byte
// slice. Upper and lower case digits are accepted. The `h` receiver
// is updated only if data could be decoded successfully.
func (h *HexBytes) UnmarshalText(data []byte) error {
	b := make([]byte, hex.DecodedLen(len(data)))
	if _, err := hex.Decode(b, data); err != nil {
		return fmt.Errorf("decoding hex string: %w", err)
	}
	*h = b
	return nil
}

// MarshalText implements encoding.TextMarshaler interface and encodes
// `h` as a lower case hex string.
func (h HexBytes) MarshalText() ([]byte, error) {
	b := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(b, h)
	return b, nil
}

// LogValue implements slog.LogValuer and reports the length of `h`
// without revealing its contents.
func (h HexBytes) LogValue() slog.Value {
	return slog.StringValue(fmt.Sprintf("[%d bytes]", len(h)))
}
