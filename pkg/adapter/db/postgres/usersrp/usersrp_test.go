// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/momeni/clean-users/pkg/core/repo"
	"github.com/stretchr/testify/suite"
)

var columns = []string{
	"uid", "name", "email", "credential", "created_at", "updated_at",
}

type UsersRepoSuite struct {
	suite.Suite

	mock sqlmock.Sqlmock
	pool *postgres.Pool
	repo *usersrp.Repo
	ctx  context.Context
	now  time.Time
	cred []byte
}

func TestUsersRepoSuite(t *testing.T) {
	suite.Run(t, new(UsersRepoSuite))
}

func (urs *UsersRepoSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	urs.Require().NoError(err)
	urs.mock = mock
	urs.pool, err = postgres.NewPoolFromDB(db)
	urs.Require().NoError(err)
	urs.repo = usersrp.New()
	urs.ctx = context.Background()
	urs.now = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	urs.cred = make([]byte, model.CredentialLen)
	urs.cred[0] = 0x42
}

func (urs *UsersRepoSuite) TearDownTest() {
	urs.Require().NoError(urs.mock.ExpectationsWereMet())
}

func (urs *UsersRepoSuite) conn(f func(q repo.UsersConnQueryer)) {
	err := urs.pool.Conn(urs.ctx, func(
		ctx context.Context, c repo.Conn,
	) error {
		f(urs.repo.Conn(c))
		return nil
	})
	urs.Require().NoError(err)
}

func (urs *UsersRepoSuite) row(id uuid.UUID, email string) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		id.String(), "Alice", email, urs.cred, urs.now, urs.now,
	)
}

func (urs *UsersRepoSuite) TestInsert() {
	id := uuid.New()
	urs.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).WithArgs(
		id, "Alice", "a@b.c", urs.cred, urs.now, urs.now,
	).WillReturnResult(sqlmock.NewResult(0, 1))
	urs.conn(func(q repo.UsersConnQueryer) {
		u, err := q.Insert(urs.ctx, &model.User{
			ID:         id,
			Name:       "Alice",
			Email:      "a@b.c",
			Credential: urs.cred,
			CreatedAt:  urs.now,
			UpdatedAt:  urs.now,
		})
		urs.Require().NoError(err)
		urs.Equal(id, u.ID)
		urs.Equal(model.Credential(urs.cred), u.Credential)
	})
}

func (urs *UsersRepoSuite) TestInsertDuplicateEmail() {
	urs.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{
			Code:           postgres.UniqueViolation,
			ConstraintName: "users_email_key",
		})
	urs.conn(func(q repo.UsersConnQueryer) {
		_, err := q.Insert(urs.ctx, &model.User{
			ID: uuid.New(), Name: "Bob", Email: "a@b.c",
			Credential: urs.cred,
		})
		urs.Equal(http.StatusConflict, cerr.StatusCode(err))
	})
}

func (urs *UsersRepoSuite) TestFindByID() {
	id := uuid.New()
	urs.mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "users" WHERE uid = $1 LIMIT 1`,
	)).WithArgs(id).WillReturnRows(urs.row(id, "a@b.c"))
	urs.conn(func(q repo.UsersConnQueryer) {
		u, err := q.FindByID(urs.ctx, id)
		urs.Require().NoError(err)
		urs.Equal(&model.User{
			ID:         id,
			Name:       "Alice",
			Email:      "a@b.c",
			Credential: urs.cred,
			CreatedAt:  urs.now,
			UpdatedAt:  urs.now,
		}, u)
	})
}

func (urs *UsersRepoSuite) TestFindByEmailNotFound() {
	urs.mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "users" WHERE email = $1 LIMIT 1`,
	)).WithArgs("x@y.z").WillReturnRows(sqlmock.NewRows(columns))
	urs.conn(func(q repo.UsersConnQueryer) {
		_, err := q.FindByEmail(urs.ctx, "x@y.z")
		urs.Equal(http.StatusNotFound, cerr.StatusCode(err))
	})
}

func (urs *UsersRepoSuite) TestUpdateByEmailInTx() {
	id := uuid.New()
	urs.mock.ExpectBegin()
	updated := urs.now.Add(time.Hour)
	urs.mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE "users" SET "credential"=$1,"email"=$2,"name"=$3,` +
			`"updated_at"=$4 WHERE email = $5`,
	)).WithArgs(
		urs.cred, "new@b.c", "Alice", updated, "a@b.c",
	).WillReturnRows(urs.row(id, "new@b.c"))
	urs.mock.ExpectCommit()
	err := urs.pool.Conn(urs.ctx, func(
		ctx context.Context, c repo.Conn,
	) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			u, err := urs.repo.Tx(tx).UpdateByEmail(
				ctx, "a@b.c", &model.User{
					Name: "Alice", Email: "new@b.c", Credential: urs.cred,
					UpdatedAt: updated,
				},
			)
			if err != nil {
				return err
			}
			urs.Equal(id, u.ID)
			urs.Equal("new@b.c", u.Email)
			return nil
		})
	})
	urs.Require().NoError(err)
}

func (urs *UsersRepoSuite) TestUpdateByIDNotFound() {
	id := uuid.New()
	urs.mock.ExpectQuery(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WithArgs(urs.cred, "a@b.c", "A", sqlmock.AnyArg(), id).
		WillReturnRows(sqlmock.NewRows(columns))
	urs.conn(func(q repo.UsersConnQueryer) {
		_, err := q.UpdateByID(urs.ctx, id, &model.User{
			Name: "A", Email: "a@b.c", Credential: urs.cred,
		})
		urs.Equal(http.StatusNotFound, cerr.StatusCode(err))
	})
}

func (urs *UsersRepoSuite) TestDelete() {
	id := uuid.New()
	urs.mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM "users" WHERE uid = $1`,
	)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	urs.mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM "users" WHERE email = $1`,
	)).WithArgs("a@b.c").WillReturnResult(sqlmock.NewResult(0, 0))
	urs.conn(func(q repo.UsersConnQueryer) {
		urs.NoError(q.DeleteByID(urs.ctx, id))
		err := q.DeleteByEmail(urs.ctx, "a@b.c")
		urs.Equal(http.StatusNotFound, cerr.StatusCode(err))
	})
}

func (urs *UsersRepoSuite) TestTxRollsBackOnError() {
	boom := errors.New("boom")
	urs.mock.ExpectBegin()
	urs.mock.ExpectRollback()
	err := urs.pool.Conn(urs.ctx, func(
		ctx context.Context, c repo.Conn,
	) error {
		return c.Tx(ctx, func(context.Context, repo.Tx) error {
			return boom
		})
	})
	urs.ErrorIs(err, boom)
}

func (urs *UsersRepoSuite) TestTxRollsBackOnPanic() {
	urs.mock.ExpectBegin()
	urs.mock.ExpectRollback()
	err := urs.pool.Conn(urs.ctx, func(
		ctx context.Context, c repo.Conn,
	) error {
		return c.Tx(ctx, func(context.Context, repo.Tx) error {
			panic("oops")
		})
	})
	urs.ErrorContains(err, "panicked: oops")
}
