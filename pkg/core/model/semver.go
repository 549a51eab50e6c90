// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer is a released semantic version as [major, minor, patch].
// Pre-release versions are not supported.
type SemVer [3]uint

// UnmarshalText parses text as three dot-separated non-negative
// numbers. In case of errors, sv is left unchanged.
func (sv *SemVer) UnmarshalText(text []byte) error {
	p := strings.Split(string(text), ".")
	if len(p) != 3 {
		return fmt.Errorf("the %q has wrong number of components", text)
	}
	var v SemVer
	for i, s := range p {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("the %q component is not numeric", s)
		}
		v[i] = uint(n)
	}
	*sv = v
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface.
func (sv SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

// String formats sv as major.minor.patch.
func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}

// Supports reports whether a binary which knows the sv version can
// process data of the other version, i.e., their major versions match
// and other is not newer than sv in its minor version.
func (sv SemVer) Supports(other SemVer) bool {
	return sv[0] == other[0] && other[1] <= sv[1]
}
