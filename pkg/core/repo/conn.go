// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is a handler function which takes a context and an ongoing
// transaction. If it returns an error, the transaction will be rolled
// back. Otherwise, it will be committed.
type TxHandler func(context.Context, Tx) error

// Conn represents a database connection. It is unsafe to be used
// concurrently. Each statement which is executed on a Conn runs in its
// own auto-committed transaction, unless the Tx method is used.
type Conn interface {
	Queryer

	// Tx begins a new transaction, passes it to the handler function,
	// and commits or rolls it back depending on the handler result.
	// A panic in the handler function causes a rollback too.
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
