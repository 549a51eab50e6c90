// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// When trying to serialize and write out settings, the latest known
// minor and patch version will be used since older versions (with the
// same major version) can ignore the extra fields too.
//
// After decoding a YAML file, selected settings may be overridden by
// environment variables having the CUWEB_ prefix (see the Env struct).
package cfg1

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/clean-users/pkg/adapter/config/settings"
	"github.com/momeni/clean-users/pkg/adapter/config/vers"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/clean-users/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/clean-users/pkg/adapter/hash/pbkdf2"
	"github.com/momeni/clean-users/pkg/adapter/restful/gin"
	"github.com/momeni/clean-users/pkg/adapter/token/jwt"
	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/momeni/clean-users/pkg/core/credential"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/momeni/clean-users/pkg/core/repo"
	"github.com/momeni/clean-users/pkg/core/usecase/initdbuc"
	"github.com/momeni/clean-users/pkg/core/usecase/usersuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Default values and boundaries of the settings which may be omitted
// from the configuration files.
const (
	DefaultAddress       = ":8080"
	DefaultLogLevel      = "info"
	DefaultIterations    = 100_000
	DefaultMinIterations = 1_000
	DefaultMaxIterations = 10_000_000
	DefaultTokenTTL      = 15 * time.Minute
	DefaultMinTokenTTL   = time.Minute
	DefaultMaxTokenTTL   = 24 * time.Hour
)

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format, such as adapters or
// use cases. It is preferred to implement Config with primitive fields
// or other structs which are defined locally, not models or structs
// which are defined in lower layers, so the configuration can be
// versioned and kept intact while other layers can change freely.
type Config struct {
	Database    Database    // PostgreSQL database connection settings
	Gin         Gin         // Gin-Gonic instantiation settings
	Logging     Logging     // Structured logging settings
	Credentials Credentials // Users password credentials settings
	Tokens      Tokens      // Access tokens settings
	Usecases    Usecases    // Configuration settings for use cases

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance and its Database
	// target.
	Vers vers.Config `yaml:",inline"`
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%s:%d/%s.ConnectionPool: %w",
			c.Database.Host, c.Database.Port, c.Database.Name, err,
		)
	}
	return p, nil
}

// NewSchemaRepo instantiates a fresh Schema repository.
// Role names may be optionally suffixed based on the settings and
// in that case, repo.Role role names which are passed to the
// ConnectionPool method or RenewPasswords will be suffixed
// automatically.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// SchemaInitializer creates a repo.SchemaInitializer instance which
// wraps the given transaction argument and can be used to create the
// tables of the database schema version, as indicated by the
// SchemaVersion method. All table creation operations will be
// performed in the given transaction and will be persisted only if
// that transaction could commit successfully.
func (c *Config) SchemaInitializer(tx repo.Tx) (
	repo.SchemaInitializer, error,
) {
	if sv := c.SchemaVersion(); sv != postgres.Version {
		return nil, &cerr.MismatchingSemVerError{postgres.Version, sv}
	}
	return schemarp.NewInitializer(tx)
}

// NewUsersRepo instantiates a fresh Users repository.
func (c *Config) NewUsersRepo() repo.Users {
	return usersrp.New()
}

// NewCredentialManager creates the credential manager based on the
// Credentials settings.
func (c *Config) NewCredentialManager() (credential.Manager, error) {
	m, err := c.Credentials.NewManager()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RenewPasswords generates new secure passwords for the given roles
// and after recording them in the NewPassFile, will use the change
// function in order to update the passwords of those roles in the
// database too. The returned finalizer moves the NewPassFile over
// the PassFile.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// SchemaVersion returns the semantic version of the database schema
// which its connection information are kept by this Config struct.
// There is no direct dependency between the configuration file and
// database schema versions.
func (c *Config) SchemaVersion() model.SemVer {
	return c.Vers.Versions.Database
}

// NewInitDBUseCase instantiates the database initialization use case
// which targets the database that is described by `c`.
func (c *Config) NewInitDBUseCase() *initdbuc.UseCase {
	return initdbuc.New(c)
}

// NewUsersUseCase instantiates the users management use case which
// uses the `p` connection pool and the configured credential manager,
// token issuer, and use case options.
func (c *Config) NewUsersUseCase(p repo.Pool) (*usersuc.UseCase, error) {
	m, err := c.Credentials.NewManager()
	if err != nil {
		return nil, fmt.Errorf("creating credential manager: %w", err)
	}
	var opts []usersuc.Option
	if c.Tokens.Enabled() {
		iss, err := c.Tokens.NewIssuer()
		if err != nil {
			return nil, fmt.Errorf("creating token issuer: %w", err)
		}
		opts = append(opts, usersuc.WithTokenIssuer(iss))
	}
	return c.Usecases.Users.NewUseCase(p, c.NewUsersRepo(), m, opts...)
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their default values.
type Gin struct {
	Logger   *bool   // Whether to register the gin.Logger() middleware
	Recovery *bool   // Whether to register the gin.Recovery() middleware
	Address  *string // Listening address of the web server
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. The request ID middleware is always registered.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := []gin.HandlerFunc{gin.RequestID()}
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Logging contains the structured logging settings.
type Logging struct {
	// Level is the minimum level of the logged records. It may be one
	// of debug, info, warn, or error, possibly followed by an offset
	// such as warn+2.
	Level string
}

// SlogLevel parses the logging level.
func (l Logging) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("parsing logging level: %w", err)
	}
	return lvl, nil
}

// Credentials contains the users password credentials settings.
// The DBSalt is a deployment-wide constant and changing it (or the
// Iterations count) invalidates all stored credentials.
type Credentials struct {
	// Iterations is the PBKDF2 iterations count.
	Iterations *uint32
	// MinIterations is the inclusive minimum acceptable value for
	// the Iterations setting.
	MinIterations *uint32 `yaml:"iterations-minimum"`
	// MaxIterations is the inclusive maximum acceptable value for
	// the Iterations setting.
	MaxIterations *uint32 `yaml:"iterations-maximum"`
	// DBSalt is the 16 bytes database salt, hex encoded.
	DBSalt settings.HexBytes `yaml:"db-salt"`
}

// NewManager instantiates a credential manager using the `c` settings.
func (c Credentials) NewManager() (*pbkdf2.Manager, error) {
	return pbkdf2.New(*c.Iterations, c.DBSalt)
}

// ValidateAndNormalize fills the missing iterations settings with
// their default values and verifies the iterations range and the
// database salt length.
func (c *Credentials) ValidateAndNormalize() error {
	settings.Default(&c.Iterations, DefaultIterations)
	settings.Default(&c.MinIterations, DefaultMinIterations)
	settings.Default(&c.MaxIterations, DefaultMaxIterations)
	err := settings.VerifyRange(
		&c.Iterations, *c.MinIterations, *c.MaxIterations,
	)
	if err != nil {
		return fmt.Errorf("iterations: %w", err)
	}
	if l := len(c.DBSalt); l != pbkdf2.SaltLen {
		return pbkdf2.SaltLengthError(l)
	}
	return nil
}

// Tokens contains the access tokens settings. An empty Secret disables
// the access tokens, so the login use case only reports the user.
type Tokens struct {
	// Secret is the HMAC key for signing the tokens.
	Secret string
	// TTL is the lifetime of the issued tokens.
	TTL *settings.Duration
	// MinTTL is the inclusive minimum acceptable value for TTL.
	MinTTL *settings.Duration `yaml:"ttl-minimum"`
	// MaxTTL is the inclusive maximum acceptable value for TTL.
	MaxTTL *settings.Duration `yaml:"ttl-maximum"`
}

// Enabled reports if access tokens should be issued.
func (t Tokens) Enabled() bool {
	return t.Secret != ""
}

// NewIssuer instantiates an access token issuer using the `t` settings.
func (t Tokens) NewIssuer() (*jwt.Issuer, error) {
	return jwt.New([]byte(t.Secret), time.Duration(*t.TTL))
}

// ValidateAndNormalize fills the missing TTL settings with their
// default values and verifies the TTL range.
func (t *Tokens) ValidateAndNormalize() error {
	settings.Default(&t.TTL, settings.Duration(DefaultTokenTTL))
	settings.Default(&t.MinTTL, settings.Duration(DefaultMinTokenTTL))
	settings.Default(&t.MaxTTL, settings.Duration(DefaultMaxTokenTTL))
	if err := settings.VerifyRange(&t.TTL, *t.MinTTL, *t.MaxTTL); err != nil {
		return fmt.Errorf("ttl: %w", err)
	}
	return nil
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Users Users // users use cases related settings
}

// Users contains the configuration settings for the users use cases.
type Users struct {
	// CanonicalEmails indicates if emails should be trimmed and
	// lower-cased before being stored or used for deriving and
	// verifying credentials. A nil value is normalized as true.
	CanonicalEmails *bool `yaml:"canonical-emails"`
}

// NewUseCase instantiates a new users use case based on the settings
// in the `u` struct and the given mandatory dependencies. The opts
// are appended to the options which are implied by `u`.
func (u Users) NewUseCase(
	p repo.Pool, r repo.Users, m credential.Manager,
	opts ...usersuc.Option,
) (*usersuc.UseCase, error) {
	uopts := make([]usersuc.Option, 0, len(opts)+1)
	if *u.CanonicalEmails {
		uopts = append(uopts, usersuc.WithCanonicalEmails())
	}
	return usersuc.New(p, r, m, append(uopts, opts...)...)
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, the environ variables (or the process
// environment variables if environ is nil) override the settings
// which are described by the Env struct and finally, loaded Config
// will be validated and normalized in order to ensure that provided
// settings are acceptable (for example the major version which is
// reported by data settings must match with number 1 which is the
// major version of this config package).
func Load(data []byte, environ map[string]string) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ApplyEnv(environ); err != nil {
		return nil, fmt.Errorf("applying environment variables: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Check(Version, postgres.Version); err != nil {
		return err
	}
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	settings.Default(&c.Gin.Address, DefaultAddress)
	settings.Default(&c.Usecases.Users.CanonicalEmails, true)
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Credentials.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating credentials settings: %w", err)
	}
	if err := c.Tokens.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating tokens settings: %w", err)
	}
	return nil
}

// Version returns the semantic version of this Config struct contents
// which its major version is equal to 1, while its minor and patch
// versions may correspond to the Minor and Patch constants or may
// describe an older version.
func (c *Config) Version() model.SemVer {
	return c.Vers.Versions.Config
}
