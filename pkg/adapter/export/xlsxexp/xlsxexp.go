// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package xlsxexp exports shifts as a roster workbook, one row per
// shift, so it may be shared with the dispatchers or printed.
package xlsxexp

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/xuri/excelize/v2"
)

// Sheet is the name of the roster worksheet.
const Sheet = "Roster"

// Header holds the column titles of the roster worksheet.
var Header = []any{
	"Date", "Start", "End", "Hours",
	"Taxi", "License plate", "Driver ID", "Driver",
}

// Write writes the shifts roster workbook into w. Dates and clock
// times are presented in the loc time zone. Shifts are written in
// the given order.
func Write(w io.Writer, shifts []model.Shift, loc *time.Location) (err error) {
	f := excelize.NewFile()
	defer func() {
		if err2 := f.Close(); err2 != nil && err == nil {
			err = fmt.Errorf("closing workbook: %w", err2)
		}
	}()
	if err = f.SetSheetName(f.GetSheetName(0), Sheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err = f.SetSheetRow(Sheet, "A1", &Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(len(Header))
	if err = f.SetCellStyle(Sheet, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	for i, s := range shifts {
		start, end := s.Start.In(loc), s.End.In(loc)
		hours := math.Round(end.Sub(start).Hours()*100) / 100
		row := []any{
			start.Format(time.DateOnly),
			start.Format("15:04"),
			end.Format("15:04"),
			hours,
			s.TaxiID,
			s.TaxiLicensePlate,
			s.DriverID,
			s.DriverFirstName + " " + s.DriverLastName,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err = f.SetSheetRow(Sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err = f.SetColWidth(Sheet, "A", last, 16); err != nil {
		return fmt.Errorf("setting column widths: %w", err)
	}
	if err = f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
