// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/clean-users/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is a type constraint which is satisfied by *Conn and *Tx.
// Repository query functions take a Q Queryer type parameter, so they
// may be implemented once and used with both types.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer

	// GORM returns the embedded *gorm.DB instance in a new session
	// which is bound to the ctx context.
	GORM(ctx context.Context) *gorm.DB
}

// session implements the statement execution methods which are shared
// by Conn and Tx. It embeds *gorm.DB, so repositories may use GORM
// directly too.
type session struct {
	*gorm.DB
}

// Exec runs the sql statement with args and returns the number of
// affected rows. With args, sql is prepared and must contain exactly
// one statement. Without args, it may contain several semi-colon
// separated statements. Placeholders may be written as $1, ?, or @name.
func (s session) Exec(
	ctx context.Context, sql string, args ...any,
) (int64, error) {
	tt := s.DB.WithContext(ctx).Exec(sql, args...)
	if err := tt.Error; err != nil {
		return 0, err
	}
	return tt.RowsAffected, nil
}

// Query runs the sql statement with args and returns its result set.
// Other statements may not run on the same connection until the
// returned Rows is closed.
func (s session) Query(
	ctx context.Context, sql string, args ...any,
) (repo.Rows, error) {
	rows, err := s.DB.WithContext(ctx).Raw(sql, args...).Rows()
	return rowsAdapter{rows}, err
}

// GORM returns the embedded *gorm.DB bound to the ctx context.
func (s session) GORM(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}
