// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres"
	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/momeni/clean-users/pkg/core/model"
	"gorm.io/gorm/clause"
)

// CreateTableSQL creates the users table and its unique email index in
// the current search_path schema.
const CreateTableSQL = `CREATE TABLE users (
    uid uuid PRIMARY KEY,
    name text NOT NULL,
    email text NOT NULL,
    credential bytea NOT NULL,
    created_at timestamptz NOT NULL,
    updated_at timestamptz NOT NULL
);
CREATE UNIQUE INDEX users_email_key ON users (email)`

type gUser struct {
	UID        uuid.UUID `gorm:"primaryKey;type:uuid;column:uid"`
	Name       string
	Email      string
	Credential []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (gu *gUser) TableName() string {
	return "users"
}

func (gu *gUser) Model() *model.User {
	return &model.User{
		ID:         gu.UID,
		Name:       gu.Name,
		Email:      gu.Email,
		Credential: gu.Credential,
		CreatedAt:  gu.CreatedAt,
		UpdatedAt:  gu.UpdatedAt,
	}
}

func fromModel(u *model.User) gUser {
	return gUser{
		UID:        u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Credential: u.Credential,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// Insert persists the u user as a new row. Zero timestamps are filled
// with the current time.
func Insert[Q postgres.Queryer](
	ctx context.Context, q Q, u *model.User,
) (*model.User, error) {
	gu := fromModel(u)
	res := q.GORM(ctx).Create(&gu)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("insert: %w", postgres.TranslateError(
			err, "user",
		))
	}
	return gu.Model(), nil
}

// FindByID finds the user which is identified by the id primary key.
func FindByID[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.User, error) {
	return find(ctx, q, "uid = ?", id)
}

// FindByEmail finds the user which has the given email address.
func FindByEmail[Q postgres.Queryer](
	ctx context.Context, q Q, email string,
) (*model.User, error) {
	return find(ctx, q, "email = ?", email)
}

func find[Q postgres.Queryer](
	ctx context.Context, q Q, cond string, arg any,
) (*model.User, error) {
	var gu gUser
	res := q.GORM(ctx).Where(cond, arg).Take(&gu)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("select: %w", postgres.TranslateError(
			err, "user",
		))
	}
	return gu.Model(), nil
}

// UpdateByID updates the name, email, credential, and update time of
// the user which is identified by id and returns the updated row.
// A zero u.UpdatedAt is replaced by the current time.
func UpdateByID[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID, u *model.User,
) (*model.User, error) {
	return update(ctx, q, "uid = ?", id, u)
}

// UpdateByEmail updates the name, email, and credential of the user
// which currently has the given email address.
func UpdateByEmail[Q postgres.Queryer](
	ctx context.Context, q Q, email string, u *model.User,
) (*model.User, error) {
	return update(ctx, q, "email = ?", email, u)
}

func update[Q postgres.Queryer](
	ctx context.Context, q Q, cond string, arg any, u *model.User,
) (*model.User, error) {
	// A map keeps the given updated_at, while gorm replaces the auto
	// update time fields of a struct by its own NowFunc.
	values := map[string]any{
		"name":       u.Name,
		"email":      u.Email,
		"credential": []byte(u.Credential),
	}
	if !u.UpdatedAt.IsZero() {
		values["updated_at"] = u.UpdatedAt
	}
	var gu []gUser
	res := q.GORM(ctx).Model(&gu).Clauses(clause.Returning{}).Select(
		"name", "email", "credential", "updated_at",
	).Where(cond, arg).Updates(values)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("update: %w", postgres.TranslateError(
			err, "user",
		))
	}
	if n := len(gu); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one user, but got %d", n),
		)
	}
	return gu[0].Model(), nil
}

// DeleteByID deletes the user which is identified by id.
func DeleteByID[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) error {
	return remove(ctx, q, "uid = ?", id)
}

// DeleteByEmail deletes the user which has the given email address.
func DeleteByEmail[Q postgres.Queryer](
	ctx context.Context, q Q, email string,
) error {
	return remove(ctx, q, "email = ?", email)
}

func remove[Q postgres.Queryer](
	ctx context.Context, q Q, cond string, arg any,
) error {
	res := q.GORM(ctx).Where(cond, arg).Delete(&gUser{})
	if err := res.Error; err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if n := res.RowsAffected; n != 1 {
		return cerr.NotFound(
			fmt.Errorf("expected one user, but got %d", n),
		)
	}
	return nil
}
