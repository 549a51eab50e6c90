// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"fmt"

	"github.com/momeni/clean-users/pkg/adapter/config/vers"
	"gopkg.in/yaml.v3"
)

// Redacted replaces the secret settings when a Marshalled instance is
// redacted, see the Marshalled.Redact method.
const Redacted = "[redacted]"

// Marshalled struct contains a field for each one of the Config struct
// fields. The field names may be different for simplicity, but the
// yaml tag of fields are chosen to have consistent names after the
// serialization operation. The types of those fields are the same if
// their default serialization format is acceptable, otherwise, they
// will be serialized manually using the Marshal method and their
// target primitive types will be used in the Marshalled struct.
type Marshalled struct {
	Database    Database
	Gin         Gin
	Logging     Logging
	Credentials struct {
		Iterations    *uint32 `yaml:",omitempty"`
		MinIterations *uint32 `yaml:"iterations-minimum,omitempty"`
		MaxIterations *uint32 `yaml:"iterations-maximum,omitempty"`
		DBSalt        string  `yaml:"db-salt,omitempty"`
	}
	Tokens struct {
		Secret string  `yaml:",omitempty"`
		TTL    *string `yaml:",omitempty"`
		MinTTL *string `yaml:"ttl-minimum,omitempty"`
		MaxTTL *string `yaml:"ttl-maximum,omitempty"`
	}
	Usecases Usecases
	Vers     *vers.Marshalled `yaml:",inline"`
}

// MarshalYAML computes an instance of the Marshalled struct, as created
// by the Marshal method, so it may be marshalled instead of the `c`
// Config instance. This replacement makes it possible to substitute
// specific settings such as a slices of numbers in a vers.Config with
// their alternative primitive data types and have control on the final
// serialization result.
func (c *Config) MarshalYAML() (interface{}, error) {
	return c.Marshal(), nil
}

// Marshal creates an instance of the Marshalled struct and fills it
// with the `c` Config instance contents. Any field which requires a
// specific marshaling logic is replaced by a primitive data type, so
// it can contain the properly serialized version of that field.
//
// This Marshal method encodes and replaces fields which are defined in
// this package and recursively calls Marshal method on those fields
// which are defined in other packages.
func (c *Config) Marshal() *Marshalled {
	m := &Marshalled{
		Database: c.Database,
		Gin:      c.Gin,
		Logging:  c.Logging,
		Usecases: c.Usecases,
	}
	m.Credentials.Iterations = c.Credentials.Iterations
	m.Credentials.MinIterations = c.Credentials.MinIterations
	m.Credentials.MaxIterations = c.Credentials.MaxIterations
	if len(c.Credentials.DBSalt) > 0 {
		b, _ := c.Credentials.DBSalt.MarshalText()
		m.Credentials.DBSalt = string(b)
	}
	m.Tokens.Secret = c.Tokens.Secret
	m.Tokens.TTL = c.Tokens.TTL.Marshal()
	m.Tokens.MinTTL = c.Tokens.MinTTL.Marshal()
	m.Tokens.MaxTTL = c.Tokens.MaxTTL.Marshal()
	m.Vers = c.Vers.Marshal()
	return m
}

// Redact replaces the non-empty secret settings of `m`, i.e., the
// database salt and the tokens secret, with the Redacted constant.
func (m *Marshalled) Redact() {
	if m.Credentials.DBSalt != "" {
		m.Credentials.DBSalt = Redacted
	}
	if m.Tokens.Secret != "" {
		m.Tokens.Secret = Redacted
	}
}

// RedactedYAML serializes `c` to YAML after redacting its secrets, so
// it may be shown to the operators.
func (c *Config) RedactedYAML() ([]byte, error) {
	m := c.Marshal()
	m.Redact()
	b, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshalling yaml: %w", err)
	}
	return b, nil
}
