// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/momeni/taxiweb/pkg/adapter/export/xlsxexp"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"github.com/spf13/cobra"
)

// operator is the actor of the administrative sub-commands; whoever
// may run them can read the configuration file (and its secrets).
var operator = model.Actor{UID: "taxiweb-cli", Role: model.RoleAdmin}

var exportOpts struct {
	from, to string
	taxiID   string
	driverID string
	output   string
}

var shiftsCmd = &cobra.Command{
	Use:   "shifts",
	Short: "Shifts reporting actions",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a roster workbook",
	Long: `Export the shifts which overlap the [from, to] calendar dates
(both inclusive) as a roster workbook. The listed shifts may be limited
to one taxi or one driver.`,
	RunE: exportShifts,
	Args: cobra.NoArgs,
}

func exportShifts(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, _, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	uc := e.app.ShiftsUseCase()
	loc := uc.Location()
	f := repo.ShiftsFilter{
		TaxiID:   exportOpts.taxiID,
		DriverID: exportOpts.driverID,
	}
	if f.From, err = time.ParseInLocation(time.DateOnly, exportOpts.from, loc); err != nil {
		return fmt.Errorf("parsing --from: %w", err)
	}
	if f.To, err = time.ParseInLocation(time.DateOnly, exportOpts.to, loc); err != nil {
		return fmt.Errorf("parsing --to: %w", err)
	}
	f.To = f.To.AddDate(0, 0, 1)
	shifts, err := uc.List(ctx, operator, f)
	if err != nil {
		return fmt.Errorf("listing shifts: %w", err)
	}
	out, err := os.Create(exportOpts.output)
	if err != nil {
		return fmt.Errorf("creating %q: %w", exportOpts.output, err)
	}
	if err = xlsxexp.Write(out, shifts, loc); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", exportOpts.output, err)
	}
	fmt.Fprintf(
		cmd.OutOrStdout(), "%d shifts are exported to %s\n",
		len(shifts), exportOpts.output,
	)
	return nil
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOpts.from, "from", "", "first date, e.g., 2024-05-01")
	f.StringVar(&exportOpts.to, "to", "", "last date, e.g., 2024-05-31")
	f.StringVar(&exportOpts.taxiID, "taxi", "", "only export shifts of this taxi")
	f.StringVar(&exportOpts.driverID, "driver", "", "only export shifts of this driver")
	f.StringVarP(&exportOpts.output, "output", "o", "roster.xlsx", "workbook path")
	_ = exportCmd.MarkFlagRequired("from")
	_ = exportCmd.MarkFlagRequired("to")
	shiftsCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(shiftsCmd)
}
