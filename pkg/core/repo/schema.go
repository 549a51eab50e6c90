// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaInitializer interface is exposed for the latest database schema
// version. It creates all tables in an existing (and empty) schema.
// Each implementation should contain the relevant information for
// finding the destination database (such as a database transaction)
// so the SchemaInitializer does not need to take any argument.
type SchemaInitializer interface {
	// InitSchema creates the tables and their indices in the schema
	// which is selected by the search_path of the current role.
	InitSchema(ctx context.Context) error
}

// Schema interface presents expectations from a repository which allows
// database schema and roles management. This repository creates schema
// and grant relevant privileges on them, so they may be filled by
// tables during the database initialization or queried during other
// use cases.
type Schema interface {
	// Conn takes a Conn interface instance, unwraps it as required,
	// and returns a SchemaConnQueryer interface which (with access to
	// the implementation-dependent connection object) can create or
	// drop schema or manage database roles.
	Conn(Conn) SchemaConnQueryer

	// Tx takes a Tx interface instance, unwraps it as required,
	// and returns a SchemaTxQueryer interface which (with access to the
	// implementation-dependent transaction object) can manage database
	// roles, change their passwords, or perform schema-level management
	// operations.
	Tx(Tx) SchemaTxQueryer
}

// SchemaConnQueryer interface lists all operations which may be taken
// with regards to database schema having an open connection with the
// auto-committed transactions.
type SchemaConnQueryer interface {
	SchemaQueryer
}

// SchemaTxQueryer interface lists all operations which may be taken
// with regards to database schema having an ongoing transaction.
// Those operations which must be executed in a transaction (and may not
// be executed with a connection) must be listed here, while other
// operations which do not strictly require an open transaction must be
// defined in the embedded SchemaQueryer interface.
type SchemaTxQueryer interface {
	SchemaQueryer

	// ChangePasswords updates the passwords of the given roles
	// in the current transaction. The roles and passwords slices must
	// have the same number of entries, so they can be used in pair.
	// These fields are not combined as a struct with two role and
	// password fields because passing items separately ensures that
	// all items are initialized explicitly in constrast to a struct
	// which its fields can be zero-initialized and are more suitable
	// to pass a set of optional fields.
	// The given roles may be suffixed automatically too, based on
	// this transaction queryer settings.
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error
}

// SchemaQueryer interface lists common operations which may be taken
// with regards to database schema having either a connection or open
// transaction at hand.
type SchemaQueryer interface {
	// DropIfExists drops the schema with cascading if it exists. That
	// is, all tables in that schema are dropped too.
	//
	// Caller is responsible to pass a trusted schema name string.
	DropIfExists(ctx context.Context, schema string) error

	// CreateSchema tries to create the schema. There must be no other
	// schema with the same name, otherwise, this operation will fail.
	//
	// Caller is responsible to pass a trusted schema name string.
	CreateSchema(ctx context.Context, schema string) error

	// CreateRoleIfNotExists creates the role if it does not exist
	// right now. Although the login option is enabled for the created
	// role, but no specific password will be set for it.
	// The ChangePasswords method may be used for setting a password.
	//
	// The role name may be suffixed automatically based on this schema
	// queryer settings.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges grants ALL privileges on the schema to the role,
	// so it may create or access tables in that schema and run
	// relevant queries.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath alters the given database role and sets its default
	// search_path to the given schema name alone.
	SetSearchPath(ctx context.Context, schema string, role Role) error
}
