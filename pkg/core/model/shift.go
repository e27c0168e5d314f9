// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "time"

// Shift models one driver operating one taxi for one continuous and
// half-open [Start, End) time interval.
// The TaxiLicensePlate and driver names are denormalized copies of the
// referenced taxi and driver profile. They are not joined on reads and
// must be propagated explicitly whenever their sources change.
type Shift struct {
	ID               string    `json:"id"`
	TaxiID           string    `json:"taxiId"`
	TaxiLicensePlate string    `json:"taxiLicensePlate"`
	DriverID         string    `json:"driverId"`
	DriverFirstName  string    `json:"driverFirstName"`
	DriverLastName   string    `json:"driverLastName"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Interval returns the [Start, End) interval of the shift.
func (s *Shift) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// ResourceID returns the TaxiID or DriverID of the shift, depending
// on the r resource kind.
func (s *Shift) ResourceID(r Resource) string {
	if r == ResourceDriver {
		return s.DriverID
	}
	return s.TaxiID
}
