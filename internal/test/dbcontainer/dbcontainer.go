// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer is an internal helper for the integration tests
// which need a real PostgreSQL server. It starts a temporary postgres:16
// container, connects to it with a *postgres.Pool, and creates the
// users table.
package dbcontainer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/clean-users/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dbmsVersion = "16"
	retryDelay  = 100 * time.Millisecond

	// sqlStateStartingUp is reported while the database system is
	// starting up.
	sqlStateStartingUp = "57P03"
)

// DB is a temporary database which contains an empty users table.
type DB struct {
	PG   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
}

// New starts a postgres container and returns its DB. The container
// runtime is located by the DOCKER_HOST environment variable, e.g.,
// DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock for podman.
// If no container can be started, t is skipped, so unit tests may run
// on hosts without a container runtime. The pool and container are
// released by t.Cleanup. The timeout only bounds the start up phase.
func New(ctx context.Context, timeout time.Duration, t *testing.T) *DB {
	t.Helper()
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(ctx2, dbmsVersion)
	if err != nil {
		t.Skipf("cannot set up a test database container: %v", err)
	}
	t.Cleanup(func() {
		assert.NoError(t, pg.Shutdown(ctx), "shutting down test database")
	})
	pool, err := connect(ctx2, pg.ConnectionString())
	require.NoError(t, err, "cannot connect to test database")
	t.Cleanup(func() {
		assert.NoError(t, pool.Close(), "closing the connections pool")
	})
	err = pool.Conn(ctx2, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si, err := schemarp.NewInitializer(tx)
			if err != nil {
				return err
			}
			return si.InitSchema(ctx)
		})
	})
	require.NoError(t, err, "cannot create the users table")
	return &DB{PG: pg, Pool: pool}
}

// connect retries to create a pool while the server is starting up or
// is unreachable, until ctx expires.
func connect(ctx context.Context, url string) (*postgres.Pool, error) {
	for {
		pool, err := postgres.NewPool(ctx, url)
		if err == nil {
			return pool, nil
		}
		var pgErr *pgconn.PgError
		var netErr net.Error
		retry := errors.As(err, &pgErr) &&
			pgErr.SQLState() == sqlStateStartingUp ||
			errors.As(err, &netErr)
		if !retry || ctx.Err() != nil {
			return nil, fmt.Errorf("connecting to %s: %w", url, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}
