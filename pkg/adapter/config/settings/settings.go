// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the version-independent building blocks of
// the configuration settings, such as the Duration and HexBytes types
// which can be decoded from YAML files or environment variables, and
// generic helpers for initializing and verifying optional settings.
// Each configuration major version package (like cfg1) composes them
// in order to describe its own format.
package settings
