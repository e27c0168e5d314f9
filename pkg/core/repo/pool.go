// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo defines the document store abstraction which the use
// cases depend on. A Pool hands out connections, a Conn may run the
// queries of one collection repository or open a Tx, and a Tx runs
// a series of reads and writes which commit together or not at all.
//
// Each collection (taxis, shifts, and users) has a repository which
// wraps a Conn or a Tx and returns the corresponding queryer. Queries
// support equality and single-field range predicates only, so callers
// which need a conjunction of two range predicates (e.g., the overlap
// test of two intervals) have to run two queries and filter in memory.
package repo

import "context"

type ConnHandler func(context.Context, Conn) error

// Pool represents a pool of store connections.
// It is safe to be used concurrently.
type Pool interface {
	// Conn acquires a connection, passes it to handler, and releases
	// it after handler returns.
	Conn(ctx context.Context, handler ConnHandler) error

	// Close releases all resources of the pool.
	Close() error
}
