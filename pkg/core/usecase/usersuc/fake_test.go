// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersuc_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/momeni/clean-users/pkg/core/credential"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/momeni/clean-users/pkg/core/repo"
)

type fakeConn struct {
	rolledBack *int
}

func (fc *fakeConn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("not supported")
}

func (fc *fakeConn) Query(
	context.Context, string, ...any,
) (repo.Rows, error) {
	return nil, errors.New("not supported")
}

func (fc *fakeConn) IsConn() {
}

func (fc *fakeConn) Tx(ctx context.Context, f repo.TxHandler) error {
	err := f(ctx, &fakeTx{})
	if err != nil {
		*fc.rolledBack++
	}
	return err
}

type fakeTx struct {
	fakeConn
}

func (ft *fakeTx) IsTx() {
}

// fakePool hands out fake connections which are only understood by
// the memUsers repository.
type fakePool struct {
	rolledBack int
}

func (fp *fakePool) Conn(ctx context.Context, f repo.ConnHandler) error {
	return f(ctx, &fakeConn{rolledBack: &fp.rolledBack})
}

func (fp *fakePool) Close() error {
	return nil
}

// memUsers is an in-memory users repository.
type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]model.User)}
}

func (mu *memUsers) Conn(repo.Conn) repo.UsersConnQueryer {
	return mu
}

func (mu *memUsers) Tx(repo.Tx) repo.UsersTxQueryer {
	return mu
}

func (mu *memUsers) byEmail(email string) (model.User, bool) {
	for _, u := range mu.users {
		if u.Email == email {
			return u, true
		}
	}
	return model.User{}, false
}

func (mu *memUsers) Insert(
	_ context.Context, u *model.User,
) (*model.User, error) {
	mu.mu.Lock()
	defer mu.mu.Unlock()
	if _, dup := mu.byEmail(u.Email); dup {
		return nil, cerr.Conflict(errors.New("duplicate email"))
	}
	mu.users[u.ID] = *u
	cp := *u
	return &cp, nil
}

func (mu *memUsers) FindByID(
	_ context.Context, id uuid.UUID,
) (*model.User, error) {
	mu.mu.Lock()
	defer mu.mu.Unlock()
	u, ok := mu.users[id]
	if !ok {
		return nil, cerr.NotFound(errors.New("user not found"))
	}
	return &u, nil
}

func (mu *memUsers) FindByEmail(
	_ context.Context, email string,
) (*model.User, error) {
	mu.mu.Lock()
	defer mu.mu.Unlock()
	u, ok := mu.byEmail(email)
	if !ok {
		return nil, cerr.NotFound(errors.New("user not found"))
	}
	return &u, nil
}

func (mu *memUsers) UpdateByID(
	_ context.Context, id uuid.UUID, u *model.User,
) (*model.User, error) {
	mu.mu.Lock()
	defer mu.mu.Unlock()
	cur, ok := mu.users[id]
	if !ok {
		return nil, cerr.NotFound(errors.New("user not found"))
	}
	if other, dup := mu.byEmail(u.Email); dup && other.ID != id {
		return nil, cerr.Conflict(errors.New("duplicate email"))
	}
	cur.Name, cur.Email, cur.Credential = u.Name, u.Email, u.Credential
	cur.UpdatedAt = time.Now()
	mu.users[id] = cur
	return &cur, nil
}

func (mu *memUsers) UpdateByEmail(
	ctx context.Context, email string, u *model.User,
) (*model.User, error) {
	cur, err := mu.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return mu.UpdateByID(ctx, cur.ID, u)
}

func (mu *memUsers) DeleteByID(_ context.Context, id uuid.UUID) error {
	mu.mu.Lock()
	defer mu.mu.Unlock()
	if _, ok := mu.users[id]; !ok {
		return cerr.NotFound(errors.New("user not found"))
	}
	delete(mu.users, id)
	return nil
}

func (mu *memUsers) DeleteByEmail(ctx context.Context, email string) error {
	cur, err := mu.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return mu.DeleteByID(ctx, cur.ID)
}

// countingManager counts the Verify calls of its embedded Manager.
type countingManager struct {
	credential.Manager
	verifies atomic.Int32
}

func (cm *countingManager) Verify(
	identity []byte, stored model.Credential, attempted []byte,
) bool {
	cm.verifies.Add(1)
	return cm.Manager.Verify(identity, stored, attempted)
}

type fakeIssuer struct {
	exp time.Time
}

func (fi fakeIssuer) Issue(id uuid.UUID) (string, time.Time, error) {
	return "token-" + id.String(), fi.exp, nil
}
