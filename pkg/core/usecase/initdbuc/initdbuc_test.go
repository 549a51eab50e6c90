// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package initdbuc_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/core/credential"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/momeni/clean-users/pkg/core/repo"
	"github.com/momeni/clean-users/pkg/core/usecase/initdbuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects the performed operations in order.
type recorder struct {
	ops []string
}

func (r *recorder) add(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

type fakeTx struct {
	fakeConn
}

func (ft *fakeTx) IsTx() {
}

type fakeConn struct {
	rec  *recorder
	role repo.Role
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
	fc.rec.add("begin %s", fc.role)
	if err := f(ctx, &fakeTx{fakeConn: *fc}); err != nil {
		fc.rec.add("rollback %s", fc.role)
		return err
	}
	fc.rec.add("commit %s", fc.role)
	return nil
}

type fakePool struct {
	rec  *recorder
	role repo.Role
}

func (fp *fakePool) Conn(ctx context.Context, f repo.ConnHandler) error {
	return f(ctx, &fakeConn{rec: fp.rec, role: fp.role})
}

func (fp *fakePool) Close() error {
	fp.rec.add("close %s", fp.role)
	return nil
}

type fakeSchema struct {
	rec     *recorder
	failAt  string
	changed map[repo.Role]string
}

func (fs *fakeSchema) Conn(repo.Conn) repo.SchemaConnQueryer {
	panic("unexpected non-transactional schema access")
}

func (fs *fakeSchema) Tx(repo.Tx) repo.SchemaTxQueryer {
	return fs
}

func (fs *fakeSchema) op(name string, args ...any) error {
	fs.rec.ops = append(fs.rec.ops, name+fmt.Sprint(args...))
	if name == fs.failAt {
		return errors.New(name + " failed")
	}
	return nil
}

func (fs *fakeSchema) DropIfExists(_ context.Context, s string) error {
	return fs.op("drop ", s)
}

func (fs *fakeSchema) CreateSchema(_ context.Context, s string) error {
	return fs.op("create ", s)
}

func (fs *fakeSchema) CreateRoleIfNotExists(
	_ context.Context, r repo.Role,
) error {
	return fs.op("role ", r)
}

func (fs *fakeSchema) GrantPrivileges(
	_ context.Context, s string, r repo.Role,
) error {
	return fs.op("grant ", s, " ", r)
}

func (fs *fakeSchema) SetSearchPath(
	_ context.Context, s string, r repo.Role,
) error {
	return fs.op("search_path ", s, " ", r)
}

func (fs *fakeSchema) ChangePasswords(
	_ context.Context, roles []repo.Role, passwords []string,
) error {
	for i, r := range roles {
		fs.changed[r] = passwords[i]
	}
	return fs.op("passwords")
}

type fakeInitializer struct {
	rec *recorder
}

func (fi fakeInitializer) InitSchema(context.Context) error {
	fi.rec.add("init schema")
	return nil
}

type memUsers struct {
	rec   *recorder
	users []model.User
}

func (mu *memUsers) Conn(repo.Conn) repo.UsersConnQueryer {
	panic("unexpected non-transactional users access")
}

func (mu *memUsers) Tx(repo.Tx) repo.UsersTxQueryer {
	return mu
}

func (mu *memUsers) Insert(
	_ context.Context, u *model.User,
) (*model.User, error) {
	mu.rec.add("insert %s", u.Email)
	mu.users = append(mu.users, *u)
	cp := *u
	return &cp, nil
}

func (mu *memUsers) FindByID(
	context.Context, uuid.UUID,
) (*model.User, error) {
	return nil, errors.New("not supported")
}

func (mu *memUsers) FindByEmail(
	context.Context, string,
) (*model.User, error) {
	return nil, errors.New("not supported")
}

func (mu *memUsers) UpdateByID(
	context.Context, uuid.UUID, *model.User,
) (*model.User, error) {
	return nil, errors.New("not supported")
}

func (mu *memUsers) UpdateByEmail(
	context.Context, string, *model.User,
) (*model.User, error) {
	return nil, errors.New("not supported")
}

func (mu *memUsers) DeleteByID(context.Context, uuid.UUID) error {
	return errors.New("not supported")
}

func (mu *memUsers) DeleteByEmail(context.Context, string) error {
	return errors.New("not supported")
}

type concatManager struct{}

func (concatManager) Generate(identity, password []byte) model.Credential {
	return model.Credential(string(identity) + ":" + string(password))
}

func (cm concatManager) Verify(
	identity []byte, stored model.Credential, attempted []byte,
) bool {
	return string(cm.Generate(identity, attempted)) == string(stored)
}

var _ credential.Manager = concatManager{}

type fakeSettings struct {
	rec       *recorder
	schema    *fakeSchema
	users     *memUsers
	finalized bool
}

func newFakeSettings() *fakeSettings {
	rec := &recorder{}
	return &fakeSettings{
		rec: rec,
		schema: &fakeSchema{
			rec: rec, changed: make(map[repo.Role]string),
		},
		users: &memUsers{rec: rec},
	}
}

func (fs *fakeSettings) ConnectionPool(
	_ context.Context, r repo.Role,
) (repo.Pool, error) {
	fs.rec.add("pool %s", r)
	return &fakePool{rec: fs.rec, role: r}, nil
}

func (fs *fakeSettings) NewSchemaRepo() repo.Schema {
	return fs.schema
}

func (fs *fakeSettings) SchemaInitializer(
	repo.Tx,
) (repo.SchemaInitializer, error) {
	return fakeInitializer{rec: fs.rec}, nil
}

func (fs *fakeSettings) NewUsersRepo() repo.Users {
	return fs.users
}

func (fs *fakeSettings) NewCredentialManager() (credential.Manager, error) {
	return concatManager{}, nil
}

func (fs *fakeSettings) RenewPasswords(
	ctx context.Context,
	change func(context.Context, []repo.Role, []string) error,
	roles ...repo.Role,
) (func() error, error) {
	passes := make([]string, len(roles))
	for i := range roles {
		passes[i] = fmt.Sprintf("secret-%d", i)
	}
	if err := change(ctx, roles, passes); err != nil {
		return nil, err
	}
	return func() error {
		fs.rec.add("finalize")
		fs.finalized = true
		return nil
	}, nil
}

func (fs *fakeSettings) SchemaVersion() model.SemVer {
	return model.SemVer{1, 0, 0}
}

var adminOps = []string{
	"pool admin",
	"begin admin",
	"drop cuweb1",
	"create cuweb1",
	"role cuweb",
	"grant cuweb1 cuweb",
	"search_path cuweb1 cuweb",
	"passwords",
	"commit admin",
	"finalize",
	"close admin",
}

func TestInit(t *testing.T) {
	fs := newFakeSettings()
	uc := initdbuc.New(fs)
	require.NoError(t, uc.Init(context.Background()))
	expected := append(append([]string{}, adminOps...),
		"pool cuweb",
		"begin cuweb",
		"init schema",
		"commit cuweb",
		"close cuweb",
	)
	assert.Equal(t, expected, fs.rec.ops)
	assert.True(t, fs.finalized)
	assert.Equal(t, map[repo.Role]string{
		repo.AdminRole:  "secret-0",
		repo.NormalRole: "secret-1",
	}, fs.schema.changed)
	assert.Empty(t, fs.users.users)
}

func TestInitDevSeedsSampleUser(t *testing.T) {
	fs := newFakeSettings()
	uc := initdbuc.New(fs)
	require.NoError(t, uc.InitDev(context.Background()))
	expected := append(append([]string{}, adminOps...),
		"pool cuweb",
		"begin cuweb",
		"init schema",
		"insert "+initdbuc.DevUserEmail,
		"commit cuweb",
		"close cuweb",
	)
	assert.Equal(t, expected, fs.rec.ops)
	require.Len(t, fs.users.users, 1)
	u := fs.users.users[0]
	assert.Equal(t, initdbuc.DevUserName, u.Name)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.True(t, concatManager{}.Verify(
		[]byte(initdbuc.DevUserEmail), u.Credential,
		[]byte(initdbuc.DevUserPassword),
	))
}

func TestInitStopsOnSchemaFailure(t *testing.T) {
	fs := newFakeSettings()
	fs.schema.failAt = "grant "
	uc := initdbuc.New(fs)
	err := uc.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "granting normal role privs")
	assert.False(t, fs.finalized)
	assert.Equal(t, []string{
		"pool admin",
		"begin admin",
		"drop cuweb1",
		"create cuweb1",
		"role cuweb",
		"grant cuweb1 cuweb",
		"rollback admin",
		"close admin",
	}, fs.rec.ops)
	assert.Empty(t, fs.schema.changed)
}

func TestSchemaName(t *testing.T) {
	assert.Equal(t, "cuweb1", initdbuc.SchemaName(1))
	assert.Equal(t, "cuweb12", initdbuc.SchemaName(12))
}
