// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp provides a reification of the repo.Users interface
// which persists the user accounts in the users table of a PostgreSQL
// database using the GORM framework.
package usersrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/momeni/clean-users/pkg/core/repo"
)

// Repo represents the users repository.
type Repo struct {
}

// New instantiates a users Repo struct.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic.
func (users *Repo) Conn(c repo.Conn) repo.UsersConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Insert(
	ctx context.Context, u *model.User,
) (*model.User, error) {
	return Insert(ctx, cq.Conn, u)
}

func (cq connQueryer) FindByID(
	ctx context.Context, id uuid.UUID,
) (*model.User, error) {
	return FindByID(ctx, cq.Conn, id)
}

func (cq connQueryer) FindByEmail(
	ctx context.Context, email string,
) (*model.User, error) {
	return FindByEmail(ctx, cq.Conn, email)
}

func (cq connQueryer) UpdateByID(
	ctx context.Context, id uuid.UUID, u *model.User,
) (*model.User, error) {
	return UpdateByID(ctx, cq.Conn, id, u)
}

func (cq connQueryer) UpdateByEmail(
	ctx context.Context, email string, u *model.User,
) (*model.User, error) {
	return UpdateByEmail(ctx, cq.Conn, email, u)
}

func (cq connQueryer) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return DeleteByID(ctx, cq.Conn, id)
}

func (cq connQueryer) DeleteByEmail(ctx context.Context, email string) error {
	return DeleteByEmail(ctx, cq.Conn, email)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by this adapter layer. Otherwise, it will
// panic.
func (users *Repo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Insert(
	ctx context.Context, u *model.User,
) (*model.User, error) {
	return Insert(ctx, tq.Tx, u)
}

func (tq txQueryer) FindByID(
	ctx context.Context, id uuid.UUID,
) (*model.User, error) {
	return FindByID(ctx, tq.Tx, id)
}

func (tq txQueryer) FindByEmail(
	ctx context.Context, email string,
) (*model.User, error) {
	return FindByEmail(ctx, tq.Tx, email)
}

func (tq txQueryer) UpdateByID(
	ctx context.Context, id uuid.UUID, u *model.User,
) (*model.User, error) {
	return UpdateByID(ctx, tq.Tx, id, u)
}

func (tq txQueryer) UpdateByEmail(
	ctx context.Context, email string, u *model.User,
) (*model.User, error) {
	return UpdateByEmail(ctx, tq.Tx, email, u)
}

func (tq txQueryer) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return DeleteByID(ctx, tq.Tx, id)
}

func (tq txQueryer) DeleteByEmail(ctx context.Context, email string) error {
	return DeleteByEmail(ctx, tq.Tx, email)
}
