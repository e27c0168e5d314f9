// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema creates the taxis, users, and shifts tables and their
// indices. Creation is idempotent, so Init may run on every start.
package schema

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/momeni/taxiweb/pkg/adapter/db/postgres"
)

//go:embed schema.sql
var ddl string

// Init creates the missing tables and indices using q.
func Init[Q postgres.Queryer](ctx context.Context, q Q) error {
	if _, err := q.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
