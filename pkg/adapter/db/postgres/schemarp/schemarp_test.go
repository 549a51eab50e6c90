// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/clean-users/pkg/core/repo"
	"github.com/stretchr/testify/suite"
)

type fixedHasher struct {
	iters []int
}

func (h *fixedHasher) Verifier(pass string, iters int) (string, error) {
	if pass == "" {
		return "", errors.New("empty password")
	}
	h.iters = append(h.iters, iters)
	return "SCRAM-SHA-256$" + pass, nil
}

type SchemaRepoSuite struct {
	suite.Suite

	mock   sqlmock.Sqlmock
	pool   *postgres.Pool
	hasher *fixedHasher
	repo   *schemarp.Repo
	ctx    context.Context
}

func TestSchemaRepoSuite(t *testing.T) {
	suite.Run(t, new(SchemaRepoSuite))
}

func (srs *SchemaRepoSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	srs.Require().NoError(err)
	srs.mock = mock
	srs.pool, err = postgres.NewPoolFromDB(db)
	srs.Require().NoError(err)
	srs.hasher = &fixedHasher{}
	srs.repo = schemarp.New("_test", srs.hasher)
	srs.ctx = context.Background()
}

func (srs *SchemaRepoSuite) TearDownTest() {
	srs.Require().NoError(srs.mock.ExpectationsWereMet())
}

func (srs *SchemaRepoSuite) exec(sql string) {
	srs.mock.ExpectExec(regexp.QuoteMeta(sql)).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func (srs *SchemaRepoSuite) TestSchemaDDLWithConn() {
	srs.exec(`DROP SCHEMA IF EXISTS "cuweb1" CASCADE`)
	srs.exec(`CREATE SCHEMA "cuweb1"`)
	srs.exec(`GRANT ALL PRIVILEGES ON SCHEMA "cuweb1" TO "admin_test"`)
	srs.exec(`ALTER ROLE "cuweb_test" SET search_path TO "cuweb1"`)
	err := srs.pool.Conn(srs.ctx, func(
		ctx context.Context, c repo.Conn,
	) error {
		q := srs.repo.Conn(c)
		srs.Require().NoError(q.DropIfExists(ctx, "cuweb1"))
		srs.Require().NoError(q.CreateSchema(ctx, "cuweb1"))
		srs.Require().NoError(q.GrantPrivileges(
			ctx, "cuweb1", repo.AdminRole,
		))
		return q.SetSearchPath(ctx, "cuweb1", repo.NormalRole)
	})
	srs.Require().NoError(err)
}

func (srs *SchemaRepoSuite) TestIdentifiersAreQuoted() {
	srs.exec(`CREATE SCHEMA "odd""name"`)
	err := srs.pool.Conn(srs.ctx, func(
		ctx context.Context, c repo.Conn,
	) error {
		return srs.repo.Conn(c).CreateSchema(ctx, `odd"name`)
	})
	srs.Require().NoError(err)
}

func (srs *SchemaRepoSuite) TestCreateRoleIfNotExists() {
	countQuery := regexp.QuoteMeta(
		`SELECT count(*) FROM pg_roles WHERE rolname=$1`,
	)
	srs.mock.ExpectQuery(countQuery).WithArgs("admin_test").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	srs.mock.ExpectQuery(countQuery).WithArgs("cuweb_test").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	srs.exec(`CREATE ROLE "cuweb_test" LOGIN`)
	err := srs.pool.Conn(srs.ctx, func(
		ctx context.Context, c repo.Conn,
	) error {
		q := srs.repo.Conn(c)
		srs.Require().NoError(q.CreateRoleIfNotExists(ctx, repo.AdminRole))
		return q.CreateRoleIfNotExists(ctx, repo.NormalRole)
	})
	srs.Require().NoError(err)
}

func (srs *SchemaRepoSuite) TestChangePasswords() {
	srs.mock.ExpectBegin()
	srs.exec(`ALTER ROLE "admin_test" WITH PASSWORD 'SCRAM-SHA-256$p1'`)
	srs.exec(`ALTER ROLE "cuweb_test" WITH PASSWORD 'SCRAM-SHA-256$p''2'`)
	srs.mock.ExpectCommit()
	err := srs.pool.Conn(srs.ctx, func(
		ctx context.Context, c repo.Conn,
	) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return srs.repo.Tx(tx).ChangePasswords(
				ctx,
				[]repo.Role{repo.AdminRole, repo.NormalRole},
				[]string{"p1", "p'2"},
			)
		})
	})
	srs.Require().NoError(err)
	srs.Equal([]int{
		schemarp.PasswordIterations, schemarp.PasswordIterations,
	}, srs.hasher.iters)
}

func (srs *SchemaRepoSuite) TestChangePasswordsLengthMismatch() {
	srs.mock.ExpectBegin()
	srs.mock.ExpectRollback()
	err := srs.pool.Conn(srs.ctx, func(
		ctx context.Context, c repo.Conn,
	) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return srs.repo.Tx(tx).ChangePasswords(
				ctx, []repo.Role{repo.AdminRole}, nil,
			)
		})
	})
	srs.Require().Error(err)
	srs.Empty(srs.hasher.iters)
}

func (srs *SchemaRepoSuite) TestInitSchema() {
	srs.mock.ExpectBegin()
	srs.mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE users")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	srs.mock.ExpectCommit()
	err := srs.pool.Conn(srs.ctx, func(
		ctx context.Context, c repo.Conn,
	) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			i, err := schemarp.NewInitializer(tx)
			if err != nil {
				return err
			}
			return i.InitSchema(ctx)
		})
	})
	srs.Require().NoError(err)
}
