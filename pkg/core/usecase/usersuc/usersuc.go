// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersuc contains the users UseCase which supports the user
// accounts management use cases, i.e., creating, reading, updating, and
// deleting the users (by their IDs or email addresses) and logging in.
//
// Passwords are never persisted. A credential is derived from each
// password using the credential.Manager, bound to the user email
// address, and only the credential is stored.
package usersuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/momeni/clean-users/pkg/core/credential"
	"github.com/momeni/clean-users/pkg/core/log"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/momeni/clean-users/pkg/core/repo"
	"github.com/momeni/clean-users/pkg/core/token"
)

// ErrInvalidCredentials is reported (wrapped by cerr.Authentication)
// when a login fails, either due to an unknown email address or a wrong
// password. Callers may not distinguish these two cases.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmptyPatch indicates that an update request contained no change.
var ErrEmptyPatch = errors.New("nothing to update")

// UseCase represents a users use case. It holds a database connection
// pool, the users repository instance (to be guided with the DB pool),
// the credential manager, and the users use case specific settings.
type UseCase struct {
	pool    repo.Pool
	usersrp repo.Users
	creds   credential.Manager

	canonicalEmails bool
	issuer          token.Issuer

	// dummy is verified against when a login email is unknown, so it
	// costs a full derivation too.
	dummy model.Credential
}

// New instantiates a users use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool, r repo.Users, m credential.Manager, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:    p,
		usersrp: r,
		creds:   m,
		dummy:   make(model.Credential, model.CredentialLen),
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return uc, nil
}

// Create use case registers a new user. The name and email are
// validated, the email is canonicalized (if enabled), and a credential
// is derived from the password. Creating a user with an email address
// which is already registered fails with a cerr.Conflict error.
func (users *UseCase) Create(
	ctx context.Context, nu model.NewUser,
) (*model.User, error) {
	name, err := model.NormalizeName(nu.Name)
	if err != nil {
		return nil, cerr.BadRequest(err)
	}
	email, err := users.email(nu.Email)
	if err != nil {
		return nil, err
	}
	if nu.Password == "" {
		return nil, cerr.BadRequest(model.ErrEmptyPassword)
	}
	now := users.now()
	u := &model.User{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		Credential: users.creds.Generate([]byte(email), []byte(nu.Password)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var created *model.User
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		created, err = users.usersrp.Conn(c).Insert(ctx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "user is created",
		slog.String("id", created.ID.String()),
		log.Email("email", created.Email),
	)
	return created, nil
}

// GetByID use case returns the user which is identified by id or
// a cerr.NotFound error if no such user exists.
func (users *UseCase) GetByID(
	ctx context.Context, id uuid.UUID,
) (u *model.User, err error) {
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = users.usersrp.Conn(c).FindByID(ctx, id)
		return err
	})
	if err != nil {
		u = nil
	}
	return
}

// GetByEmail use case returns the user which has the given email
// address or a cerr.NotFound error if no such user exists.
func (users *UseCase) GetByEmail(
	ctx context.Context, email string,
) (u *model.User, err error) {
	email, err = users.email(email)
	if err != nil {
		return nil, err
	}
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = users.usersrp.Conn(c).FindByEmail(ctx, email)
		return err
	})
	if err != nil {
		u = nil
	}
	return
}

// UpdateByID use case applies the p patch on the user which is
// identified by id. See UseCase.apply for the patching rules.
func (users *UseCase) UpdateByID(
	ctx context.Context, id uuid.UUID, p model.UserPatch,
) (*model.User, error) {
	return users.update(ctx, p,
		func(ctx context.Context, q repo.UsersTxQueryer) (*model.User, error) {
			return q.FindByID(ctx, id)
		},
		func(
			ctx context.Context, q repo.UsersTxQueryer, u *model.User,
		) (*model.User, error) {
			return q.UpdateByID(ctx, id, u)
		},
	)
}

// UpdateByEmail use case applies the p patch on the user which has the
// given email address. See UseCase.apply for the patching rules.
func (users *UseCase) UpdateByEmail(
	ctx context.Context, email string, p model.UserPatch,
) (*model.User, error) {
	email, err := users.email(email)
	if err != nil {
		return nil, err
	}
	return users.update(ctx, p,
		func(ctx context.Context, q repo.UsersTxQueryer) (*model.User, error) {
			return q.FindByEmail(ctx, email)
		},
		func(
			ctx context.Context, q repo.UsersTxQueryer, u *model.User,
		) (*model.User, error) {
			return q.UpdateByEmail(ctx, email, u)
		},
	)
}

type (
	findFunc   func(context.Context, repo.UsersTxQueryer) (*model.User, error)
	updateFunc func(
		context.Context, repo.UsersTxQueryer, *model.User,
	) (*model.User, error)
)

func (users *UseCase) update(
	ctx context.Context, p model.UserPatch, find findFunc, upd updateFunc,
) (u *model.User, err error) {
	if p.IsEmpty() {
		return nil, cerr.BadRequest(ErrEmptyPatch)
	}
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := users.usersrp.Tx(tx)
			cur, err := find(ctx, q)
			if err != nil {
				return err
			}
			next, err := users.apply(ctx, cur, p)
			if err != nil {
				return err
			}
			u, err = upd(ctx, q, next)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// apply returns a copy of cur user which is patched by p. A non-nil
// password causes the credential to be derived again, bound to the
// resulting email address. Changing the email address without a new
// password keeps the old credential which was bound to the old email
// address, so it will not verify anymore and a warning is logged.
func (users *UseCase) apply(
	ctx context.Context, cur *model.User, p model.UserPatch,
) (*model.User, error) {
	next := *cur
	if p.Name != nil {
		name, err := model.NormalizeName(*p.Name)
		if err != nil {
			return nil, cerr.BadRequest(err)
		}
		next.Name = name
	}
	if p.Email != nil {
		email, err := users.email(*p.Email)
		if err != nil {
			return nil, err
		}
		next.Email = email
	}
	switch {
	case p.Password != nil:
		if *p.Password == "" {
			return nil, cerr.BadRequest(model.ErrEmptyPassword)
		}
		next.Credential = users.creds.Generate(
			[]byte(next.Email), []byte(*p.Password),
		)
	case next.Email != cur.Email:
		log.Warn(
			ctx, "email is changed without a new password",
			slog.String("id", cur.ID.String()),
			log.Email("old", cur.Email),
			log.Email("new", next.Email),
		)
	}
	next.UpdatedAt = users.now()
	return &next, nil
}

// DeleteByID use case deletes the user which is identified by id.
func (users *UseCase) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return users.usersrp.Conn(c).DeleteByID(ctx, id)
	})
}

// DeleteByEmail use case deletes the user which has the given email.
func (users *UseCase) DeleteByEmail(ctx context.Context, email string) error {
	email, err := users.email(email)
	if err != nil {
		return err
	}
	return users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return users.usersrp.Conn(c).DeleteByEmail(ctx, email)
	})
}

// Login use case verifies the password of the user which has the given
// email address. In case of success, a Session containing the user and
// an access token (if a token issuer is configured) is returned.
// Unknown email addresses and wrong passwords both cause a
// cerr.Authentication error wrapping ErrInvalidCredentials. An unknown
// email address is verified against a dummy credential, so it costs
// as much as a wrong password.
func (users *UseCase) Login(
	ctx context.Context, email, password string,
) (*model.Session, error) {
	var u *model.User
	e, err := users.email(email)
	if err == nil {
		err = users.pool.Conn(ctx, func(
			ctx context.Context, c repo.Conn,
		) error {
			u, err = users.usersrp.Conn(c).FindByEmail(ctx, e)
			return err
		})
	}
	switch {
	case err == nil:
	case cerr.IsNotFound(err), errors.Is(err, model.ErrInvalidEmail):
		users.creds.Verify([]byte(e), users.dummy, []byte(password))
		log.Info(ctx, "login failed", log.Email("email", e))
		return nil, cerr.Authentication(ErrInvalidCredentials)
	default:
		return nil, err
	}
	if !users.creds.Verify([]byte(u.Email), u.Credential, []byte(password)) {
		log.Info(ctx, "login failed", log.Email("email", e))
		return nil, cerr.Authentication(ErrInvalidCredentials)
	}
	s := &model.Session{User: u}
	if users.issuer != nil {
		s.AccessToken, s.ExpiresAt, err = users.issuer.Issue(u.ID)
		if err != nil {
			return nil, fmt.Errorf("issuing access token: %w", err)
		}
	}
	log.Info(ctx, "user is logged in", slog.String("id", u.ID.String()))
	return s, nil
}

// email validates the given email address and canonicalizes it if the
// canonical emails option is enabled. Errors are wrapped by
// cerr.BadRequest.
func (users *UseCase) email(e string) (string, error) {
	if users.canonicalEmails {
		c, err := model.CanonicalEmail(e)
		if err != nil {
			return "", cerr.BadRequest(err)
		}
		return c, nil
	}
	if err := model.ValidateEmail(e); err != nil {
		return "", cerr.BadRequest(err)
	}
	return e, nil
}

func (users *UseCase) now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
