// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgpassfile"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/clean-users/pkg/adapter/hash/scram"
	"github.com/momeni/clean-users/pkg/core/log"
	"github.com/momeni/clean-users/pkg/core/repo"
	scrami "github.com/momeni/clean-users/pkg/core/scram"
)

// Names of the pass-files in the Database.PassDir directory.
const (
	PassFile    = ".pgpass"
	NewPassFile = ".pgpass.new"
)

// ErrNoPassword indicates that a pass-file had no password line for
// the asked host, port, database, and role.
var ErrNoPassword = errors.New("no matching password line")

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like cuweb
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`

	// AuthMethod specifies the database authentication method name.
	// This method indicates how passwords should be hashed and stored
	// in the database, so they may be used by an authentication
	// operation successfully.
	// Currently, only scram-sha-1 and scram-sha-256 methods are
	// supported. The scram-sha-256 is the default value.
	AuthMethod string `yaml:"auth-method,omitempty"`

	// hasher is instantiated based on the AuthMethod and is used by
	// the NewSchemaRepo method, so Schema repo instances may hash
	// passwords properly (as expected by the DBMS).
	hasher scrami.Hasher `yaml:"-"`
}

// ConnectionPool creates a connection pool for the r role (suffixed by
// d.RoleSuffix) using its password from the PassFile. If that fails,
// passwords may have been renewed by an interrupted initialization, so
// the NewPassFile is tried too and if it works, it replaces PassFile.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	path := filepath.Join(d.PassDir, PassFile)
	p, err := d.connect(ctx, r, path)
	if err == nil {
		return p, nil
	}
	newPath := filepath.Join(d.PassDir, NewPassFile)
	log.Warn(
		ctx, "failed to connect, trying the new pass-file",
		slog.String("path", path),
		slog.String("new-path", newPath),
		log.Err("error", err),
	)
	p, err = d.connect(ctx, r, newPath)
	if err != nil {
		return nil, fmt.Errorf("can use neither pass-file: %w", err)
	}
	if err = os.Rename(newPath, path); err != nil {
		p.Close()
		return nil, fmt.Errorf("promoting %q: %w", newPath, err)
	}
	return p, nil
}

func (d Database) connect(
	ctx context.Context, r repo.Role, path string,
) (*postgres.Pool, error) {
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	return postgres.NewPool(ctx, u)
}

// ConnectionURL returns the postgresql scheme URL for connecting as the
// r role (suffixed by d.RoleSuffix). The password is looked up in the
// path pass-file which follows the libpq pgpass format, i.e., lines
// like host:port:dbname:role:password where fields may be * wildcards
// and \: or \\ escapes. ErrNoPassword is returned if no line matches.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	pf, err := pgpassfile.ReadPassfile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	port := strconv.Itoa(d.Port)
	pass := pf.FindPassword(d.Host, port, d.Name, string(r))
	if pass == "" {
		return "", ErrNoPassword
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   net.JoinHostPort(d.Host, port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// NewSchemaRepo instantiates a Schema repository which suffixes the
// role names by d.RoleSuffix and sends the role passwords as verifiers
// of the d.AuthMethod. The ValidateAndNormalize method must be called
// beforehand.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(d.RoleSuffix, d.hasher)
}

// RenewPasswords generates random 128 bits passwords for roles and
// records them in the NewPassFile before calling change, so the
// database and the pass-files may not diverge. The change function is
// expected to update the role passwords (suffixed by d.RoleSuffix) in
// a transaction. After that transaction commits, the returned finalizer
// should be called in order to move NewPassFile over PassFile.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	var sb strings.Builder
	b := make([]byte, 16)
	for i, r := range roles {
		if _, err = rand.Read(b); err != nil {
			return nil, fmt.Errorf("generating password of %q: %w", r, err)
		}
		passwords[i] = base64.RawStdEncoding.EncodeToString(b)
		fields := []string{
			d.Host, strconv.Itoa(d.Port), d.Name,
			string(r + d.RoleSuffix), passwords[i],
		}
		for j, f := range fields {
			fields[j] = pgpassEscaper.Replace(f)
		}
		sb.WriteString(strings.Join(fields, ":"))
		sb.WriteByte('\n')
	}
	orgPath := filepath.Join(d.PassDir, PassFile)
	newPath := filepath.Join(d.PassDir, NewPassFile)
	err = os.WriteFile(newPath, []byte(sb.String()), 0o600)
	if err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return func() error {
		return os.Rename(newPath, orgPath)
	}, nil
}

var pgpassEscaper = strings.NewReplacer(`\`, `\\`, `:`, `\:`)

// ValidateAndNormalize selects the default scram-sha-256 AuthMethod if
// it is empty and instantiates its SCRAM hasher.
func (d *Database) ValidateAndNormalize() error {
	if d.AuthMethod == "" {
		d.AuthMethod = "scram-sha-256"
	}
	h, err := scram.ForAuthMethod(d.AuthMethod)
	if err != nil {
		return err
	}
	d.hasher = h
	return nil
}
