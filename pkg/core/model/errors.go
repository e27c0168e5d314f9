// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError indicates a malformed input which is rejected before
// any store access. Field names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConflictError indicates that a candidate shift overlaps an existing
// shift on one resource. It carries enough information for a client
// to name the resource and the exact date and time range which could
// not be booked.
//
// Booking several dates is not atomic. Booked lists the shifts which
// were written for the earlier dates of the same request and remain
// booked.
type ConflictError struct {
	Resource        Resource
	ResourceID      string
	ResourceName    string // license plate or driver full name
	Date            time.Time
	Interval        Interval
	ExistingShiftID string
	Booked          []Shift
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"%s %s is already booked on %s between %s and %s",
		e.Resource, e.ResourceName, e.Date.Format(time.DateOnly),
		e.Interval.Start.Format("15:04"), e.Interval.End.Format("15:04"),
	)
}

// CollisionError indicates that a taxi may not be created or renamed
// because another taxi already has the same normalized identifier.
type CollisionError struct {
	TaxiID       string
	LicensePlate string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf(
		"a taxi with license plate %s (%s) already exists",
		e.LicensePlate, e.TaxiID,
	)
}

// NotFoundError indicates that a record is missing. This includes the
// records which vanished between a check and a later transactional
// read. The operation may be retried from scratch by its caller.
type NotFoundError struct {
	Collection string
	ID         string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s/%s was not found", e.Collection, e.ID)
}

// TaxiInUseError indicates that a taxi may not be deleted while some
// shifts refer to it.
type TaxiInUseError struct {
	TaxiID string
	Shifts int64
}

// Error implements the error interface.
func (e *TaxiInUseError) Error() string {
	return fmt.Sprintf(
		"taxi %s is referenced by %d shift(s)", e.TaxiID, e.Shifts,
	)
}

// ErrDuplicateUser indicates that a profile with the same uid exists.
var ErrDuplicateUser = errors.New("user profile already exists")
