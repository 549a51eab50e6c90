// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres is an adapter which provides the repo.Pool, Conn,
// and Tx interfaces over a PostgreSQL DBMS using the GORM framework
// and its pgx based driver. The repository packages (like usersrp)
// live in its sub-packages and unwrap these types in order to access
// the underlying *gorm.DB instances.
package postgres

import (
	"github.com/momeni/clean-users/pkg/core/model"
)

// These constants represent the major, minor, and patch components of
// the current database schema semantic version.
const (
	Major = 1 // latest supported schema major version
	Minor = 0 // latest schema minor version in Major series
	Patch = 0 // latest schema patch version in Minor series
)

// Version is the latest supported database schema semantic version.
var Version = model.SemVer{Major, Minor, Patch}
