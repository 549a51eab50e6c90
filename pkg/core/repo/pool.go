// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// ConnHandler is a handler function which takes a context and a
// database connection which should be used solely from the current
// goroutine (or by proper synchronization). When ConnHandler returns,
// the connection will be released to its pool.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool. It may be used
// concurrently from different goroutines, but each connection which
// it provides must be used by one goroutine at a time.
type Pool interface {
	// Conn acquires a database connection from the pool, passes it to
	// the handler function, and releases it after the handler returns.
	// The error which is returned by the handler is returned by Conn,
	// possibly wrapped.
	Conn(ctx context.Context, handler ConnHandler) error

	// Close closes the pool and all of its idle connections. It must
	// be called only by the pool creator after all handlers returned.
	Close() error
}
