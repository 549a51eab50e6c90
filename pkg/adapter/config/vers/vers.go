// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vers parses the versions block of the configuration files.
// Two versions are tracked, namely the configuration file format and
// the database schema. They are read before the remaining settings,
// so the settings format can be chosen and verified beforehand.
package vers

import (
	"fmt"

	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/momeni/clean-users/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Config may be embedded inline in a versioned config struct in order
// to carry its versions block.
type Config struct {
	Versions Versions `yaml:"versions"`
}

// Versions contains the configuration file and database schema versions.
type Versions struct {
	Database model.SemVer `yaml:"database"`
	Config   model.SemVer `yaml:"config"`
}

// Marshalled is the serializable form of Config. The SemVer fields are
// replaced by their strings, so they are not encoded as YAML sequences.
type Marshalled struct {
	Versions struct {
		Database string `yaml:"database"`
		Config   string `yaml:"config"`
	} `yaml:"versions"`
}

// Marshal creates a Marshalled instance representing vc.
func (vc *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Versions.Database = vc.Versions.Database.String()
	m.Versions.Config = vc.Versions.Config.String()
	return m
}

// Load deserializes the versions block of data. Other settings in data
// are ignored.
func Load(data []byte) (*Config, error) {
	vc := &Config{}
	if err := yaml.Unmarshal(data, vc); err != nil {
		return nil, err
	}
	return vc, nil
}

// Check returns a cerr.MismatchingSemVerError (wrapped with a message)
// if the configuration file version is not supported by the cfg
// version or the database schema version differs from the schema
// version. Only one schema version is supported since schema
// migrations are not implemented.
func (vc *Config) Check(cfg, schema model.SemVer) error {
	v := vc.Versions
	switch {
	case !cfg.Supports(v.Config):
		return fmt.Errorf(
			"unsupported config version: %w",
			&cerr.MismatchingSemVerError{cfg, v.Config},
		)
	case v.Database != schema:
		return fmt.Errorf(
			"unsupported database schema version: %w",
			&cerr.MismatchingSemVerError{schema, v.Database},
		)
	}
	return nil
}
