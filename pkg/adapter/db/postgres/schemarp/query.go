// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres"
	"github.com/momeni/clean-users/pkg/core/repo"
	"github.com/momeni/clean-users/pkg/core/scram"
)

// PasswordIterations is the SCRAM iterations count which is used for
// hashing the database role passwords.
const PasswordIterations = 15000

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func roleIdent(roleSuffix, role repo.Role) string {
	return ident(string(role + roleSuffix))
}

// DropIfExists drops the schema with cascade if it exists.
//
// Caller is responsible to pass a trusted schema name string.
func DropIfExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "DROP SCHEMA IF EXISTS "+ident(schema)+" CASCADE")
	return err
}

// CreateSchema tries to create the schema. There must be no other
// schema with the same name, otherwise, this operation will fail.
//
// Caller is responsible to pass a trusted schema name string.
func CreateSchema[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "CREATE SCHEMA "+ident(schema))
	return err
}

// CreateRoleIfNotExists creates the role if it does not exist right
// now, with the login option and no password.
//
// The role name is suffixed by roleSuffix if it is not empty. This is
// useful to have distinct role names if repo.Role predefined constants
// are not desirable (e.g., in the parallel test cases).
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	var n int64
	res := q.GORM(ctx).Raw(
		"SELECT count(*) FROM pg_roles WHERE rolname=?",
		string(role+roleSuffix),
	).Scan(&n)
	if err := res.Error; err != nil {
		return fmt.Errorf("querying pg_roles: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err := q.Exec(ctx, "CREATE ROLE "+roleIdent(roleSuffix, role)+" LOGIN")
	return err
}

// GrantPrivileges grants ALL privileges on the schema to the role,
// so it may create or access tables in that schema.
//
// The role name is suffixed by roleSuffix if it is not empty.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"GRANT ALL PRIVILEGES ON SCHEMA %s TO %s",
		ident(schema), roleIdent(roleSuffix, role),
	))
	return err
}

// SetSearchPath alters the given database role and sets its default
// search_path to the given schema name alone.
//
// The role name is suffixed by roleSuffix if it is not empty.
func SetSearchPath[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"ALTER ROLE %s SET search_path TO %s",
		roleIdent(roleSuffix, role), ident(schema),
	))
	return err
}

// ChangePasswords updates the passwords of the given roles in the
// tx transaction. The roles and passwords slices must have the same
// number of entries, so they can be used in pair.
//
// The roles names are suffixed by roleSuffix if it is not empty.
// Passwords are sent to the DBMS as SCRAM verifiers which are derived
// by the hasher.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return fmt.Errorf(
			"got %d roles, but %d passwords", len(roles), len(passwords),
		)
	}
	for i, r := range roles {
		h, err := hasher.Verifier(passwords[i], PasswordIterations)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", r, err)
		}
		_, err = tx.Exec(ctx, fmt.Sprintf(
			"ALTER ROLE %s WITH PASSWORD %s",
			roleIdent(roleSuffix, r), literal(h),
		))
		if err != nil {
			return fmt.Errorf("altering role %q: %w", r, err)
		}
	}
	return nil
}

// literal quotes s as a SQL string literal.
func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
