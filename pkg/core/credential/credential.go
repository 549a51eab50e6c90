// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package credential exports the expected interface of a password
// credential manager. A credential manager derives an irreversible
// credential from a password which can be persisted and later used
// to verify an attempted password. For the implementation, check the
// adapter layer.
//
// Each credential is bound to an identity token (i.e., the canonical
// email address of a user) and to the deployment which has generated
// it, so equal passwords produce distinct credentials for distinct
// users and distinct deployments.
package credential

import "github.com/momeni/clean-users/pkg/core/model"

// Manager represents the expectations from a credential manager.
// Implementations must be immutable after their construction, so
// a Manager instance may be used concurrently without locking.
type Manager interface {
	// Generate derives a credential from the given password which is
	// bound to the identity token. It is deterministic, so calling it
	// again with the same arguments produces the same credential.
	Generate(identity, password []byte) model.Credential

	// Verify reports whether the attempted password matches with the
	// stored credential for the given identity token. A malformed
	// stored credential (e.g., having a wrong length) is reported just
	// like a mismatch. Implementations must take the same amount of
	// time regardless of the position of the first mismatching byte.
	Verify(
		identity []byte, stored model.Credential, attempted []byte,
	) bool
}
