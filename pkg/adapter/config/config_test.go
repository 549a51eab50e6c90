// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/momeni/clean-users/pkg/adapter/config"
	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
versions: {config: 1.0.0, database: 1.0.0}
database: {host: db, port: 5432, name: cuweb, pass-dir: /tmp/pw}
credentials: {db-salt: d62698daf4dc505224f227d1fe39018a}
`

func TestLoadSampleConfig(t *testing.T) {
	c, err := config.Load(filepath.Join("..", "..", "..",
		"configs", "sample-config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, uint32(100000), *c.Credentials.Iterations)
	assert.True(t, *c.Usecases.Users.CanonicalEmails)
	assert.True(t, c.Tokens.Enabled())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseChecksVersions(t *testing.T) {
	for name, tc := range map[string]struct{ from, to string }{
		"config major":   {"config: 1.0.0", "config: 2.0.0"},
		"schema version": {"database: 1.0.0", "database: 1.1.0"},
	} {
		t.Run(name, func(t *testing.T) {
			data := strings.Replace(sample, tc.from, tc.to, 1)
			_, err := config.Parse([]byte(data), map[string]string{})
			var mve *cerr.MismatchingSemVerError
			assert.True(t, errors.As(err, &mve), "err: %v", err)
		})
	}
}

func TestParseAppliesEnvironment(t *testing.T) {
	c, err := config.Parse([]byte(sample), map[string]string{
		"CUWEB_DATABASE_HOST": "other-host",
	})
	require.NoError(t, err)
	assert.Equal(t, "other-host", c.Database.Host)
}
