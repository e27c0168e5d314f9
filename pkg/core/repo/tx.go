// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx represents a store transaction.
// It is unsafe to be used concurrently. All reads and writes which are
// performed through the repositories wrapping one Tx are committed
// atomically, so a failure in the middle of a Tx leaves the store
// exactly as it was before the Tx began.
// The exact amount of isolation between transactions depends on
// the store. The PostgreSQL adapter runs READ-COMMITTED transactions
// and relies on row locks (see the Lock methods), while the in-memory
// adapter serializes transactions entirely.
type Tx interface {
	// IsTx method prevents a non-Tx object (such as a Conn) to
	// mistakenly implement the Tx interface.
	IsTx()
}
