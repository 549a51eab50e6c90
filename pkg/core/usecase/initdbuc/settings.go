// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package initdbuc

import (
	"context"

	"github.com/momeni/clean-users/pkg/core/credential"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/momeni/clean-users/pkg/core/repo"
)

// Settings represents the expectations of the database initialization
// use case from the configuration settings. It reports the database
// schema version and acts as a factory for the connection pools,
// schema and users repositories, and the credential manager.
type Settings interface {
	// ConnectionPool creates a database connection pool using the
	// connection information which are kept in this Settings instance.
	// The r argument specifies the role name for the created pool.
	//
	// Each non-empty and non-commented line of the passwords file
	// should conform with this format:
	//
	//	host:port:dbname:role:password
	//
	// If a temporary passwords file (as created by RenewPasswords) was
	// used for establishment of a connection pool, it will be moved to
	// the main passwords file before returning.
	ConnectionPool(ctx context.Context, r repo.Role) (repo.Pool, error)

	// NewSchemaRepo instantiates a fresh Schema repository. Role names
	// may be suffixed based on the settings, so the returned repository
	// must use the same suffix as the ConnectionPool method.
	NewSchemaRepo() repo.Schema

	// SchemaInitializer creates a repo.SchemaInitializer instance
	// which wraps the given transaction argument.
	SchemaInitializer(tx repo.Tx) (repo.SchemaInitializer, error)

	// NewUsersRepo instantiates a fresh Users repository.
	NewUsersRepo() repo.Users

	// NewCredentialManager creates the credential manager which must
	// be used for deriving the credentials of the seeded users.
	NewCredentialManager() (credential.Manager, error)

	// RenewPasswords generates new secure passwords for the given roles
	// and after recording them in a temporary file, will use the change
	// function in order to update the passwords of those roles in the
	// database too. After a successful commitment, the returned
	// finalizer moves the temporary passwords file over the main one.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context,
			roles []repo.Role,
			passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)

	// SchemaVersion returns the semantic version of the database schema.
	SchemaVersion() model.SemVer
}
