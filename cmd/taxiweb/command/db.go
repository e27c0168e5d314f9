// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/taxiweb/pkg/adapter/db/postgres"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres/schema"
	"github.com/momeni/taxiweb/pkg/core/log"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation, the init action creates the tables.`,
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database tables and indexes",
	Long: `Create the taxis, users, and shifts tables and their indexes
in the PostgreSQL database which is specified in the configuration file
(or the DATABASE_URL environment variable). Existing tables are kept,
so running init again is harmless.`,
	RunE: initDB,
	Args: cobra.NoArgs,
}

func initDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, _, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	if e.cfg.Database.Driver != "postgres" {
		return errors.New("db init needs the postgres database driver")
	}
	err = e.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return schema.Init(ctx, c.(*postgres.Conn))
	})
	if err != nil {
		return fmt.Errorf("initializing DB schema: %w", err)
	}
	log.Info(ctx, "database schema is initialized")
	return nil
}

func init() {
	dbCmd.AddCommand(dbInitCmd)
	rootCmd.AddCommand(dbCmd)
}
