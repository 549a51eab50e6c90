// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp provides a reification of the repo.Schema interface
// making it possible to create or drop different schema or manage the
// database user roles. It also provides the repo.SchemaInitializer
// interface for the latest schema version.
package schemarp

import (
	"context"
	"fmt"

	"github.com/momeni/clean-users/pkg/adapter/db/postgres"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/clean-users/pkg/core/repo"
	"github.com/momeni/clean-users/pkg/core/scram"
)

// Repo represents a schema management repository.
type Repo struct {
	roleSuffix repo.Role
	hasher     scram.Hasher
}

// New instantiates a schema management Repo struct. The roleSuffix
// is appended to all role names and may be empty. The hasher is used
// for hashing the role passwords before sending them to the DBMS.
func New(roleSuffix repo.Role, hasher scram.Hasher) *Repo {
	return &Repo{roleSuffix: roleSuffix, hasher: hasher}
}

type connQueryer struct {
	*postgres.Conn
	*Repo
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic. Unwrapped connection will be wrapped and
// returned as an instance of repo.SchemaConnQueryer interface, so
// it can be used in the use cases layer without requiring to type
// assert again and again.
func (schema *Repo) Conn(c repo.Conn) repo.SchemaConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc, Repo: schema}
}

func (cq connQueryer) DropIfExists(
	ctx context.Context, schema string,
) error {
	return DropIfExists(ctx, cq.Conn, schema)
}

func (cq connQueryer) CreateSchema(
	ctx context.Context, schema string,
) error {
	return CreateSchema(ctx, cq.Conn, schema)
}

func (cq connQueryer) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	return CreateRoleIfNotExists(ctx, cq.Conn, cq.roleSuffix, role)
}

func (cq connQueryer) GrantPrivileges(
	ctx context.Context, schema string, role repo.Role,
) error {
	return GrantPrivileges(ctx, cq.Conn, cq.roleSuffix, schema, role)
}

func (cq connQueryer) SetSearchPath(
	ctx context.Context, schema string, role repo.Role,
) error {
	return SetSearchPath(ctx, cq.Conn, cq.roleSuffix, schema, role)
}

type txQueryer struct {
	*postgres.Tx
	*Repo
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by this adapter layer. Otherwise, it will
// panic. Unwrapped transaction will be wrapped and returned as an
// instance of repo.SchemaTxQueryer interface.
//
// The ChangePasswords operation mandates a transaction. When creating
// roles for the first time, it is desired to set their passwords
// before making them visible by committing the transaction.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt, Repo: schema}
}

func (tq txQueryer) DropIfExists(
	ctx context.Context, schema string,
) error {
	return DropIfExists(ctx, tq.Tx, schema)
}

func (tq txQueryer) CreateSchema(
	ctx context.Context, schema string,
) error {
	return CreateSchema(ctx, tq.Tx, schema)
}

func (tq txQueryer) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	return CreateRoleIfNotExists(ctx, tq.Tx, tq.roleSuffix, role)
}

func (tq txQueryer) GrantPrivileges(
	ctx context.Context, schema string, role repo.Role,
) error {
	return GrantPrivileges(ctx, tq.Tx, tq.roleSuffix, schema, role)
}

func (tq txQueryer) SetSearchPath(
	ctx context.Context, schema string, role repo.Role,
) error {
	return SetSearchPath(ctx, tq.Tx, tq.roleSuffix, schema, role)
}

func (tq txQueryer) ChangePasswords(
	ctx context.Context, roles []repo.Role, passwords []string,
) error {
	return ChangePasswords(
		ctx, tq.Tx, tq.roleSuffix, tq.hasher, roles, passwords,
	)
}

// Initializer creates the tables of the latest schema version.
type Initializer struct {
	tx *postgres.Tx
}

// NewInitializer wraps the tx transaction, expecting to find an
// instance of *postgres.Tx, and returns a repo.SchemaInitializer.
func NewInitializer(tx repo.Tx) (*Initializer, error) {
	tt, ok := tx.(*postgres.Tx)
	if !ok {
		return nil, fmt.Errorf("unsupported transaction type: %T", tx)
	}
	return &Initializer{tx: tt}, nil
}

// InitSchema creates the users table and its unique email index.
func (i *Initializer) InitSchema(ctx context.Context) error {
	if _, err := i.tx.Exec(ctx, usersrp.CreateTableSQL); err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}
	return nil
}
