// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Queryer is the common interface of Conn and Tx, allowing raw SQL
// statements to be executed. Repositories usually prefer their own
// framework dependent mechanisms, so Queryer is mostly useful for
// trivial statements which need no repository.
type Queryer interface {
	// Exec runs sql with args and returns the number of affected rows.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Query runs sql with args and returns its result set. Caller must
	// close the returned Rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows is a result set which may be iterated using Next and Scan.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
}
