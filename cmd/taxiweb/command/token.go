// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/authn"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Bearer tokens management actions",
}

var issueTokenCmd = &cobra.Command{
	Use:   "issue UID",
	Short: "Issue a bearer token for an existing profile",
	Long: `Issue a bearer token for the UID profile and print it.
The token is signed by the configured secret and expires after the
--ttl duration (or the configured auth token-ttl setting).`,
	RunE: issueToken,
	Args: cobra.ExactArgs(1),
}

func issueToken(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	e, _, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	uid := args[0]
	if _, err = e.app.DriversUseCase().Profile(ctx, uid); err != nil {
		return fmt.Errorf("loading profile of %q: %w", uid, err)
	}
	ttl := tokenTTL
	if ttl == 0 {
		ttl = e.cfg.TokenTTL()
	}
	tok, err := authn.IssueToken(e.cfg.JWTSecret(), uid, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}

func init() {
	issueTokenCmd.Flags().DurationVar(
		&tokenTTL, "ttl", 0, "lifetime of the token",
	)
	tokenCmd.AddCommand(issueTokenCmd)
	rootCmd.AddCommand(tokenCmd)
}
