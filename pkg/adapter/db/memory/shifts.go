// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
)

// Shifts is the in-memory implementation of the repo.Shifts interface.
type Shifts struct{}

// Conn returns a shifts queryer which runs on the c connection.
func (Shifts) Conn(c repo.Conn) repo.ShiftsConnQueryer {
	return shiftsQueryer{v: c.(*Conn)}
}

// Tx returns a shifts queryer which runs on the tx transaction.
func (Shifts) Tx(tx repo.Tx) repo.ShiftsTxQueryer {
	return shiftsQueryer{v: tx.(*Tx)}
}

type shiftsQueryer struct {
	v view
}

func shiftNotFound(id string) error {
	return cerr.NotFound(&model.NotFoundError{Collection: "shifts", ID: id})
}

func sortShifts(shifts []model.Shift) {
	sort.Slice(shifts, func(i, j int) bool {
		if !shifts[i].Start.Equal(shifts[j].Start) {
			return shifts[i].Start.Before(shifts[j].Start)
		}
		return shifts[i].ID < shifts[j].ID
	})
}

// filter returns the shifts which keep returns true for.
func (q shiftsQueryer) filter(keep func(s *model.Shift) bool) (
	shifts []model.Shift, err error,
) {
	err = q.v.do(func(snap *snapshot) error {
		for _, s := range snap.shifts {
			if keep(&s) {
				shifts = append(shifts, s)
			}
		}
		return nil
	})
	sortShifts(shifts)
	return shifts, err
}

func (q shiftsQueryer) Get(ctx context.Context, id string) (s *model.Shift, err error) {
	err = q.v.do(func(snap *snapshot) error {
		ss, ok := snap.shifts[id]
		if !ok {
			return shiftNotFound(id)
		}
		s = &ss
		return nil
	})
	return s, err
}

func (q shiftsQueryer) EndingAfter(
	ctx context.Context, r model.Resource, id string, t time.Time,
) ([]model.Shift, error) {
	return q.filter(func(s *model.Shift) bool {
		return s.ResourceID(r) == id && s.End.After(t)
	})
}

func (q shiftsQueryer) StartingBefore(
	ctx context.Context, r model.Resource, id string, t time.Time,
) ([]model.Shift, error) {
	return q.filter(func(s *model.Shift) bool {
		return s.ResourceID(r) == id && s.Start.Before(t)
	})
}

func (q shiftsQueryer) IDsByTaxi(ctx context.Context, taxiID string) ([]string, error) {
	shifts, err := q.filter(func(s *model.Shift) bool {
		return s.TaxiID == taxiID
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(shifts))
	for _, s := range shifts {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (q shiftsQueryer) List(
	ctx context.Context, f repo.ShiftsFilter,
) ([]model.Shift, error) {
	shifts, err := q.filter(func(s *model.Shift) bool {
		switch {
		case f.TaxiID != "" && s.TaxiID != f.TaxiID:
			return false
		case f.DriverID != "" && s.DriverID != f.DriverID:
			return false
		case !f.From.IsZero() && !s.End.After(f.From):
			return false
		case !f.To.IsZero() && !s.Start.Before(f.To):
			return false
		}
		return true
	})
	if shifts == nil && err == nil {
		shifts = []model.Shift{}
	}
	return shifts, err
}

func (q shiftsQueryer) Create(ctx context.Context, s *model.Shift) error {
	return q.v.do(func(snap *snapshot) error {
		s.ID = uuid.NewString()
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now()
		}
		snap.shifts[s.ID] = *s
		return nil
	})
}

func (q shiftsQueryer) Update(ctx context.Context, s *model.Shift) error {
	return q.v.do(func(snap *snapshot) error {
		old, ok := snap.shifts[s.ID]
		if !ok {
			return shiftNotFound(s.ID)
		}
		s.CreatedAt = old.CreatedAt
		snap.shifts[s.ID] = *s
		return nil
	})
}

func (q shiftsQueryer) Delete(ctx context.Context, id string) error {
	return q.v.do(func(snap *snapshot) error {
		if _, ok := snap.shifts[id]; !ok {
			return shiftNotFound(id)
		}
		delete(snap.shifts, id)
		return nil
	})
}

func (q shiftsQueryer) SetTaxiPlate(
	ctx context.Context, taxiID, plate string,
) (n int64, err error) {
	err = q.v.do(func(snap *snapshot) error {
		for id, s := range snap.shifts {
			if s.TaxiID == taxiID {
				s.TaxiLicensePlate = plate
				snap.shifts[id] = s
				n++
			}
		}
		return nil
	})
	return n, err
}

func (q shiftsQueryer) SetDriverName(
	ctx context.Context, driverID, firstName, lastName string,
) (n int64, err error) {
	err = q.v.do(func(snap *snapshot) error {
		for id, s := range snap.shifts {
			if s.DriverID == driverID {
				s.DriverFirstName, s.DriverLastName = firstName, lastName
				snap.shifts[id] = s
				n++
			}
		}
		return nil
	})
	return n, err
}

func (q shiftsQueryer) Repoint(
	ctx context.Context, ids []string, taxiID, plate string,
) error {
	return q.v.do(func(snap *snapshot) error {
		for _, id := range ids {
			if _, ok := snap.shifts[id]; !ok {
				return shiftNotFound(id)
			}
		}
		for _, id := range ids {
			s := snap.shifts[id]
			s.TaxiID, s.TaxiLicensePlate = taxiID, plate
			snap.shifts[id] = s
		}
		return nil
	})
}

func (q shiftsQueryer) DeleteByDriver(
	ctx context.Context, driverID string,
) (n int64, err error) {
	err = q.v.do(func(snap *snapshot) error {
		for id, s := range snap.shifts {
			if s.DriverID == driverID {
				delete(snap.shifts, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
