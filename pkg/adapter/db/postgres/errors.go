// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/clean-users/pkg/core/cerr"
	"gorm.io/gorm"
)

// UniqueViolation is the SQLSTATE code of the unique_violation error.
const UniqueViolation = "23505"

// TranslateError converts the well-known DBMS errors into their core
// layer cerr.Error counterparts. A unique constraint violation becomes
// a cerr.Conflict error and a missing record becomes cerr.NotFound.
// The what argument names the queried entity in the error message.
// Other errors (including nil) are returned unchanged.
func TranslateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cerr.NotFound(fmt.Errorf("%s not found", what))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == UniqueViolation {
		return cerr.Conflict(fmt.Errorf(
			"%s already exists (%s): %w", what, pgErr.ConstraintName, err,
		))
	}
	return err
}
