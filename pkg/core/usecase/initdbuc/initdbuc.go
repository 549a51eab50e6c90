// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package initdbuc provides the database initialization use case.
// It (re)creates the versioned schema, prepares the normal role which
// is used by the web server, renews the roles passwords, and creates
// the tables. The development variant also seeds a sample user.
package initdbuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/core/log"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/momeni/clean-users/pkg/core/repo"
)

// Sample user which is created by the InitDev use case.
const (
	DevUserName     = "Sample User"
	DevUserEmail    = "useremail@example.com"
	DevUserPassword = "@74d7]404j|W}6u"
)

// UseCase represents the database initialization use case. It may
// be used to initialize an empty database or a development database
// as asked by the Init and InitDev methods.
type UseCase struct {
	settings   Settings    // target settings
	schemaRepo repo.Schema // schema management repo
}

// New creates a UseCase instance, using the ss settings in order to
// find the target database connection information and also create
// its schema initializer.
func New(ss Settings) *UseCase {
	return &UseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// Init drops cuwebN schema (if N is the relevant major version) and
// (re)creates it using the admin role. It also creates the normal
// role (if it does not exist), grants privileges on the created schema
// to the normal role, sets its search_path, and renews passwords of
// both admin and normal roles in a single transaction. Thereafter, it
// connects to the database using the normal role and creates the
// users table in a second transaction.
func (iduc *UseCase) Init(ctx context.Context) error {
	return iduc.initDB(ctx, nil)
}

// InitDev performs the Init use case and also inserts a sample user
// (see DevUserEmail and DevUserPassword) in the same transaction which
// creates the users table.
func (iduc *UseCase) InitDev(ctx context.Context) error {
	m, err := iduc.settings.NewCredentialManager()
	if err != nil {
		return fmt.Errorf("creating credential manager: %w", err)
	}
	usersRepo := iduc.settings.NewUsersRepo()
	return iduc.initDB(ctx, func(ctx context.Context, tx repo.Tx) error {
		email, err := model.CanonicalEmail(DevUserEmail)
		if err != nil {
			return err
		}
		u, err := usersRepo.Tx(tx).Insert(ctx, &model.User{
			ID:    uuid.New(),
			Name:  DevUserName,
			Email: email,
			Credential: m.Generate(
				[]byte(email), []byte(DevUserPassword),
			),
		})
		if err != nil {
			return fmt.Errorf("inserting sample user: %w", err)
		}
		log.Info(
			ctx, "sample user is created",
			slog.String("id", u.ID.String()),
			log.Email("email", u.Email),
		)
		return nil
	})
}

func (iduc *UseCase) initDB(
	ctx context.Context,
	fill func(ctx context.Context, tx repo.Tx) error,
) error {
	if err := iduc.dropAndCreateAgain(ctx); err != nil {
		return fmt.Errorf("dropping/recreating schema: %w", err)
	}
	p, err := iduc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for normal role: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si, err := iduc.settings.SchemaInitializer(tx)
			if err != nil {
				return fmt.Errorf("creating SchemaInitializer: %w", err)
			}
			if err := si.InitSchema(ctx); err != nil {
				return fmt.Errorf("initializing schema: %w", err)
			}
			if fill == nil {
				return nil
			}
			return fill(ctx, tx)
		})
	})
	if err != nil {
		return fmt.Errorf("normal connection: %w", err)
	}
	return nil
}

func (iduc *UseCase) dropAndCreateAgain(ctx context.Context) error {
	p, err := iduc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.schemaRepo.Tx(tx)
			v := iduc.settings.SchemaVersion()
			sn := SchemaName(v[0])
			if err := q.DropIfExists(ctx, sn); err != nil {
				return fmt.Errorf("dropping %q: %w", sn, err)
			}
			if err := q.CreateSchema(ctx, sn); err != nil {
				return fmt.Errorf("creating %q: %w", sn, err)
			}
			if err := q.CreateRoleIfNotExists(
				ctx, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("creating normal role: %w", err)
			}
			if err := q.GrantPrivileges(
				ctx, sn, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("granting normal role privs: %w", err)
			}
			if err := q.SetSearchPath(
				ctx, sn, repo.NormalRole,
			); err != nil {
				return fmt.Errorf(
					"setting search_path of normal role to %q: %w",
					sn, err,
				)
			}
			finalizer, err = iduc.settings.RenewPasswords(
				ctx, q.ChangePasswords, repo.AdminRole, repo.NormalRole,
			)
			if err != nil {
				return fmt.Errorf("RenewPasswords: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	log.Info(ctx, "schema is recreated", slog.String("schema",
		SchemaName(iduc.settings.SchemaVersion()[0])))
	return nil
}

// SchemaName returns the target database schema name for the given
// major version. It returns cuwebN for version N.
func SchemaName(major uint) string {
	return fmt.Sprintf("cuweb%d", major)
}
