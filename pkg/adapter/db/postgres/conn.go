// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/log"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"gorm.io/gorm"
)

// Conn is one database connection which is taken from a Pool.
type Conn struct {
	*gorm.DB
}

type TxHandler = repo.TxHandler

// errConcurrentUpdate reports a transaction which lost a race against
// another booking or rename of the same taxi or driver.
var errConcurrentUpdate = errors.New("concurrent update, try again")

// Tx runs f in a transaction, committing it if f returns nil and
// rolling it back otherwise (or if f panics). Serialization failures
// and deadlocks are reported as conflicts.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	tx := c.DB.WithContext(ctx).Begin()
	if err = tx.Error; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panicked: %v", r)
			if rerr := tx.Rollback().Error; rerr != nil {
				err = fmt.Errorf("%w, rollback: %w", err, rerr)
			}
			return
		}
		if err == nil {
			if err = tx.Commit().Error; err != nil {
				err = fmt.Errorf("commit: %w", err)
			}
		} else if rerr := tx.Rollback().Error; rerr != nil {
			log.Error(ctx, "rollback failed", log.Err("err", rerr))
		}
		if IsRetryable(err) {
			err = cerr.Conflict(fmt.Errorf("%w: %w", errConcurrentUpdate, err))
		}
	}()
	return f(ctx, &Tx{DB: tx})
}

// Exec runs the sql statement and returns the number of affected rows.
func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	res := c.DB.WithContext(ctx).Exec(sql, args...)
	if err := res.Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

func (c *Conn) IsConn() {
}

// GORM returns the connection session bound to ctx.
func (c *Conn) GORM(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}
