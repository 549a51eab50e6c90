// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package vers_test

import (
	"errors"
	"testing"

	"github.com/momeni/clean-users/pkg/adapter/config/vers"
	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/momeni/clean-users/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadAndCheck(t *testing.T) {
	cfg := model.SemVer{1, 2, 0}
	schema := model.SemVer{1, 0, 0}
	for _, tc := range []struct {
		data string
		ok   bool
	}{
		{"versions: {config: 1.2.0, database: 1.0.0}", true},
		{"versions: {config: 1.0.7, database: 1.0.0}", true},
		{"versions: {config: 1.3.0, database: 1.0.0}", false},
		{"versions: {config: 2.0.0, database: 1.0.0}", false},
		{"versions: {config: 1.0.0, database: 1.0.1}", false},
	} {
		t.Run(tc.data, func(t *testing.T) {
			vc, err := vers.Load([]byte(tc.data))
			require.NoError(t, err)
			err = vc.Check(cfg, schema)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var mve *cerr.MismatchingSemVerError
			assert.True(t, errors.As(err, &mve), "err: %v", err)
		})
	}
}

func TestLoadRejectsMalformedVersions(t *testing.T) {
	for _, data := range []string{
		"versions: {config: 1.0, database: 1.0.0}",
		"versions: {config: 1.0.x, database: 1.0.0}",
		"versions: {config: 1.0.0, database: -1.0.0}",
	} {
		_, err := vers.Load([]byte(data))
		assert.Error(t, err, data)
	}
}

func TestMarshal(t *testing.T) {
	vc := &vers.Config{Versions: vers.Versions{
		Database: model.SemVer{1, 0, 0},
		Config:   model.SemVer{1, 2, 3},
	}}
	b, err := yaml.Marshal(vc.Marshal())
	require.NoError(t, err)
	assert.Equal(t,
		"versions:\n    database: 1.0.0\n    config: 1.2.3\n", string(b),
	)
}
