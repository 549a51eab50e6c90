// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the expected interfaces from the repository
// packages. The use cases depend on these interfaces and the adapter
// layer provides their implementations (e.g., over a PostgreSQL DBMS).
// The interfaces are designed in a way that use cases can decide about
// the connection and transaction boundaries, while the repositories
// decide about the actual queries.
package repo
