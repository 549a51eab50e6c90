// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// Nil2Zero replaces a nil *t with a pointer to the zero value of T.
func Nil2Zero[T any](t **T) {
	if *t == nil {
		*t = new(T)
	}
}

// Default replaces a nil *t with a pointer to a copy of v. Non-nil
// settings are kept because they were provided by the config file or
// the environment variables.
func Default[T any](t **T, v T) {
	if *t == nil {
		*t = &v
	}
}

// OutOfRangeError reports a setting which was not in its [Min, Max]
// acceptable range.
type OutOfRangeError[T cmp.Ordered] struct {
	Value    T // the rejected value
	Min, Max T // the inclusive acceptable range
}

func (e *OutOfRangeError[T]) Error() string {
	if e.Min > e.Max {
		return fmt.Sprintf("minimum %v is greater than maximum %v",
			e.Min, e.Max)
	}
	return fmt.Sprintf("%v is not in [%v, %v]", e.Value, e.Min, e.Max)
}

// VerifyRange checks that *value is in the [minb, maxb] range. A nil
// *value is accepted. Out of range values are clamped to the violated
// boundary while an OutOfRangeError (with the original value) is
// returned, so callers may either fail or continue with the clamped
// value after a warning.
func VerifyRange[T cmp.Ordered](value **T, minb, maxb T) error {
	if minb > maxb {
		return &OutOfRangeError[T]{Min: minb, Max: maxb}
	}
	if *value == nil {
		return nil
	}
	v := **value
	if c := max(minb, min(v, maxb)); c != v {
		**value = c
		return &OutOfRangeError[T]{Value: v, Min: minb, Max: maxb}
	}
	return nil
}
