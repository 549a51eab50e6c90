// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/momeni/clean-users/pkg/adapter/config/settings"
)

// EnvPrefix is prepended to the names of all environment variables
// which are described by the Env struct.
const EnvPrefix = "CUWEB_"

// Env describes the environment variables which may override the
// settings of a configuration file. Zero values are treated as unset
// and leave their corresponding settings intact. For example, the
// CUWEB_CREDENTIALS_DB_SALT variable overrides credentials.db-salt.
type Env struct {
	Database struct {
		Host    string `env:"HOST"`
		Port    int    `env:"PORT"`
		Name    string `env:"NAME"`
		PassDir string `env:"PASS_DIR"`
	} `envPrefix:"DATABASE_"`
	Gin struct {
		Address string `env:"ADDRESS"`
	} `envPrefix:"GIN_"`
	Logging struct {
		Level string `env:"LEVEL"`
	} `envPrefix:"LOGGING_"`
	Credentials struct {
		Iterations uint32            `env:"ITERATIONS"`
		DBSalt     settings.HexBytes `env:"DB_SALT"`
	} `envPrefix:"CREDENTIALS_"`
	Tokens struct {
		Secret string            `env:"SECRET"`
		TTL    settings.Duration `env:"TTL"`
	} `envPrefix:"TOKENS_"`
}

// LoadEnv parses the environ variables (or the process environment
// variables if environ is nil) into a new Env instance.
func LoadEnv(environ map[string]string) (*Env, error) {
	e := &Env{}
	err := env.ParseWithOptions(e, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	if err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	return e, nil
}

// ApplyEnv loads the environ variables (see LoadEnv) and overwrites
// the `c` settings by those variables which were set.
func (c *Config) ApplyEnv(environ map[string]string) error {
	e, err := LoadEnv(environ)
	if err != nil {
		return err
	}
	override(&c.Database.Host, e.Database.Host)
	override(&c.Database.Port, e.Database.Port)
	override(&c.Database.Name, e.Database.Name)
	override(&c.Database.PassDir, e.Database.PassDir)
	override(&c.Logging.Level, e.Logging.Level)
	override(&c.Tokens.Secret, e.Tokens.Secret)
	if e.Gin.Address != "" {
		c.Gin.Address = &e.Gin.Address
	}
	if e.Credentials.Iterations != 0 {
		c.Credentials.Iterations = &e.Credentials.Iterations
	}
	if e.Credentials.DBSalt != nil {
		c.Credentials.DBSalt = e.Credentials.DBSalt
	}
	if e.Tokens.TTL != 0 {
		c.Tokens.TTL = &e.Tokens.TTL
	}
	return nil
}

func override[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
