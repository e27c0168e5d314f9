// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package xlsxexp_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/momeni/taxiweb/pkg/adapter/export/xlsxexp"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteRoster(t *testing.T) {
	start := time.Date(2024, 5, 6, 22, 0, 0, 0, time.UTC)
	shifts := []model.Shift{{
		ID:               "s1",
		TaxiID:           "AB-123",
		TaxiLicensePlate: "AB 123",
		DriverID:         "d1",
		DriverFirstName:  "Dora",
		DriverLastName:   "Diaz",
		Start:            start,
		End:              start.Add(4*time.Hour + 30*time.Minute),
	}}
	buf := &bytes.Buffer{}
	require.NoError(t, xlsxexp.Write(buf, shifts, time.UTC))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(xlsxexp.Sheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"Date", "Start", "End", "Hours",
		"Taxi", "License plate", "Driver ID", "Driver",
	}, rows[0])
	assert.Equal(t, []string{
		"2024-05-06", "22:00", "02:30", "4.5",
		"AB-123", "AB 123", "d1", "Dora Diaz",
	}, rows[1])
}

func TestWriteEmptyRoster(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, xlsxexp.Write(buf, nil, time.UTC))
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{xlsxexp.Sheet}, f.GetSheetList())
}
