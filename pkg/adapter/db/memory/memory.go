// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memory implements the repo package interfaces with an
// in-process document store. It is used for development (when no
// PostgreSQL server is configured) and by the use cases unit tests.
//
// Transactions are serialized. A Tx works on a private copy of the
// store contents which replaces the shared contents when the Tx
// commits, so a failed (or panicked) Tx leaves no trace.
// Queries which run on a Conn take the store lock for their own
// duration only. A TxHandler must use the Tx queryers exclusively,
// otherwise, it deadlocks.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
)

type snapshot struct {
	taxis  map[string]model.Taxi
	users  map[string]model.UserProfile
	shifts map[string]model.Shift
}

func newSnapshot() *snapshot {
	return &snapshot{
		taxis:  make(map[string]model.Taxi),
		users:  make(map[string]model.UserProfile),
		shifts: make(map[string]model.Shift),
	}
}

func (s *snapshot) clone() *snapshot {
	c := &snapshot{
		taxis:  make(map[string]model.Taxi, len(s.taxis)),
		users:  make(map[string]model.UserProfile, len(s.users)),
		shifts: make(map[string]model.Shift, len(s.shifts)),
	}
	for k, v := range s.taxis {
		c.taxis[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.shifts {
		c.shifts[k] = v
	}
	return c
}

// view is implemented by Conn and Tx. The queryers run their reads
// and writes through a view, so one queryer implementation serves
// both of them.
type view interface {
	do(f func(s *snapshot) error) error
}

// Pool is an in-memory store. Its zero value is not usable; use the
// NewPool function instead.
type Pool struct {
	mu   sync.Mutex
	data *snapshot
}

// NewPool creates an empty in-memory store.
func NewPool() *Pool {
	return &Pool{data: newSnapshot()}
}

type ConnHandler = repo.ConnHandler

// Conn passes a connection to the f handler. Connections are cheap
// and are not pooled.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return f(ctx, &Conn{pool: p})
}

// Close is a no-op.
func (p *Pool) Close() error {
	return nil
}

// Conn is a connection to an in-memory store.
type Conn struct {
	pool *Pool
}

type TxHandler = repo.TxHandler

// Tx runs f in a transaction. It commits if f returns nil and rolls
// back if f returns an error or panics.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	tx := &Tx{data: c.pool.data.clone()}
	defer func() {
		tx.done = true
		if r := recover(); r != nil {
			err = fmt.Errorf("panicked: %v", r)
			return
		}
		if err != nil {
			err = fmt.Errorf("handler: %w", err)
			return
		}
		c.pool.data = tx.data
	}()
	return f(ctx, tx)
}

func (c *Conn) do(f func(s *snapshot) error) error {
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	return f(c.pool.data)
}

// IsConn method prevents a non-Conn object (such as a Tx) to
// mistakenly implement the Conn interface.
func (c *Conn) IsConn() {
}

// Tx is an in-memory store transaction.
type Tx struct {
	data *snapshot
	done bool
}

func (tx *Tx) do(f func(s *snapshot) error) error {
	if tx.done {
		return fmt.Errorf("transaction is already finished")
	}
	return f(tx.data)
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the Tx interface.
func (tx *Tx) IsTx() {
}
