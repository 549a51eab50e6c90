// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	base := errors.New("base")
	for _, tc := range []struct {
		name string
		err  error
		code int
	}{
		{"bad-request", cerr.BadRequest(base), http.StatusBadRequest},
		{"authn", cerr.Authentication(base), http.StatusUnauthorized},
		{"authz", cerr.Authorization(base), http.StatusForbidden},
		{"not-found", cerr.NotFound(base), http.StatusNotFound},
		{"conflict", cerr.Conflict(base), http.StatusConflict},
		{
			"wrapped",
			fmt.Errorf("ctx: %w", cerr.NotFound(base)),
			http.StatusNotFound,
		},
		{"plain", base, http.StatusInternalServerError},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, cerr.StatusCode(tc.err))
			assert.ErrorIs(t, tc.err, base)
		})
	}
}

func TestMismatchingSemVerError(t *testing.T) {
	err := &cerr.MismatchingSemVerError{
		model.SemVer{1, 0, 0}, model.SemVer{2, 1, 3},
	}
	assert.Equal(t, "expected v1.0.0, but got v2.1.3", err.Error())
}
