// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/core/model"
)

// Users interface presents expectations from a repository which
// persists the registered user accounts. It is unwrapped as a queryer
// based on the connection or transaction which is used by a use case.
type Users interface {
	Conn(Conn) UsersConnQueryer
	Tx(Tx) UsersTxQueryer
}

// UsersConnQueryer lists the users queries which may run using an open
// connection (each statement being in its own transaction).
type UsersConnQueryer interface {
	UsersQueryer
}

// UsersTxQueryer lists the users queries which may run as part of an
// ongoing transaction.
type UsersTxQueryer interface {
	UsersQueryer
}

// UsersQueryer lists the common users queries which may be used with
// both of connections and transactions.
//
// Methods which target a single user return an error which wraps
// a cerr.NotFound error if no such user exists. Insertion or update
// of an email address which is already taken by another user returns
// an error wrapping cerr.Conflict.
type UsersQueryer interface {
	// Insert persists u as a new user. The u.ID must be filled by the
	// caller. Creation and update timestamps are filled by Insert and
	// the stored user is returned.
	Insert(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID loads the user which is identified by id.
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FindByEmail loads the user having the given email address. The
	// email is compared exactly, so the caller must canonicalize it
	// beforehand if canonical emails are in use.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateByID replaces the name, email, and credential of the user
	// identified by id with values from u and returns the updated user.
	UpdateByID(
		ctx context.Context, id uuid.UUID, u *model.User,
	) (*model.User, error)

	// UpdateByEmail is like UpdateByID, but finds the target user
	// by its current email address.
	UpdateByEmail(
		ctx context.Context, email string, u *model.User,
	) (*model.User, error)

	// DeleteByID deletes the user which is identified by id.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteByEmail deletes the user having the given email address.
	DeleteByEmail(ctx context.Context, email string) error
}
