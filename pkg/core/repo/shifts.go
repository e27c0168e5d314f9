// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/momeni/taxiweb/pkg/core/model"
)

// ShiftsFilter restricts the List query. Zero fields are ignored.
// From and To select shifts which overlap the [From, To) range.
type ShiftsFilter struct {
	TaxiID   string
	DriverID string
	From, To time.Time
}

// ShiftsConnQueryer lists the shifts queries which may run on a Conn.
// The cascade methods update or delete all matching shifts as one
// batch. Batches may be applied partially if they fail.
type ShiftsConnQueryer interface {
	ShiftsQueryer

	// List returns the shifts matching f, sorted by their start time.
	List(ctx context.Context, f ShiftsFilter) ([]model.Shift, error)

	// SetTaxiPlate sets the denormalized license plate of all shifts
	// of the taxiID taxi and returns the number of updated shifts.
	SetTaxiPlate(ctx context.Context, taxiID, plate string) (int64, error)

	// SetDriverName sets the denormalized names of all shifts of
	// the driverID driver and returns the number of updated shifts.
	SetDriverName(
		ctx context.Context, driverID, firstName, lastName string,
	) (int64, error)
}

// ShiftsTxQueryer lists the shifts queries which may run on a Tx.
type ShiftsTxQueryer interface {
	ShiftsQueryer

	// Repoint updates the ids shifts so they refer to the taxiID taxi
	// with its plate license plate. All ids must exist, otherwise, a
	// *model.NotFoundError (wrapped by cerr.NotFound) is returned and
	// the Tx should be rolled back.
	Repoint(ctx context.Context, ids []string, taxiID, plate string) error

	// DeleteByDriver deletes all shifts of the driverID driver and
	// returns the number of deleted shifts.
	DeleteByDriver(ctx context.Context, driverID string) (int64, error)
}

// ShiftsQueryer lists the shifts queries which may run on either a Conn
// or a Tx.
type ShiftsQueryer interface {
	Get(ctx context.Context, id string) (*model.Shift, error)

	// EndingAfter returns the shifts of the id resource with an end
	// instant after t.
	EndingAfter(
		ctx context.Context, r model.Resource, id string, t time.Time,
	) ([]model.Shift, error)

	// StartingBefore returns the shifts of the id resource with a start
	// instant before t.
	StartingBefore(
		ctx context.Context, r model.Resource, id string, t time.Time,
	) ([]model.Shift, error)

	// IDsByTaxi returns the IDs of all shifts of the taxiID taxi.
	IDsByTaxi(ctx context.Context, taxiID string) ([]string, error)

	// Create inserts s, assigning a fresh ID to it. The CreatedAt is
	// set to the current time if it is zero.
	Create(ctx context.Context, s *model.Shift) error

	// Update replaces all fields of the s.ID shift, except its
	// CreatedAt field.
	Update(ctx context.Context, s *model.Shift) error

	Delete(ctx context.Context, id string) error
}

// Shifts is the shifts collection repository.
type Shifts interface {
	Conn(Conn) ShiftsConnQueryer
	Tx(Tx) ShiftsTxQueryer
}
