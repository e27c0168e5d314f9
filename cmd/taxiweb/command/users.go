// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/taxiweb/pkg/core/usecase/driversuc"
	"github.com/spf13/cobra"
)

var newAdmin driversuc.NewProfile

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "User profiles management actions",
}

var addAdminCmd = &cobra.Command{
	Use:   "add-admin",
	Short: "Create an admin profile",
	Long: `Create an admin profile, so its owner may authenticate with a
bearer token (see the token issue command) and create the drivers and
taxis using the REST APIs.`,
	RunE: addAdmin,
	Args: cobra.NoArgs,
}

func addAdmin(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, _, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	u, err := e.app.DriversUseCase().CreateAdmin(ctx, newAdmin)
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admin %q is created\n", u.UID)
	return nil
}

func init() {
	f := addAdminCmd.Flags()
	f.StringVar(&newAdmin.UID, "uid", "", "unique identifier of the admin")
	f.StringVar(&newAdmin.Email, "email", "", "email address")
	f.StringVar(&newAdmin.FirstName, "first", "", "first name")
	f.StringVar(&newAdmin.LastName, "last", "", "last name")
	for _, name := range []string{"uid", "email", "first", "last"} {
		_ = addAdminCmd.MarkFlagRequired(name)
	}
	usersCmd.AddCommand(addAdminCmd)
	rootCmd.AddCommand(usersCmd)
}
