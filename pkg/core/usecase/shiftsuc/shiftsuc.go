// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package shiftsuc contains the shifts UseCase which supports booking
// shifts for one or more dates, editing and deleting them, listing
// them, and probing the availability of a taxi or a driver.
//
// Shifts of one taxi may not overlap and shifts of one driver may not
// overlap either. Both rules are checked by a Checker and each date is
// checked and written in its own transaction while the relevant taxi
// and driver records are locked, so two concurrent bookings may not
// both observe a free slot and both commit.
// Booking several dates is not atomic though: a conflict on one date
// aborts the remaining dates while the earlier dates remain booked.
package shiftsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/log"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
)

// UseCase represents a shifts use case. It holds a store connection
// pool, the shifts, taxis, and users repositories (to be guided with
// the pool), and the shifts use case specific settings.
type UseCase struct {
	pool    repo.Pool
	shifts  repo.Shifts
	taxis   repo.Taxis
	users   repo.Users
	checker *Checker

	maxDuration time.Duration
	loc         *time.Location
}

// New instantiates a shifts use case.
// Required parameters are passed individually, while optional ones
// are passed as functional options. By default, shifts may last up to
// model.MaxShiftDuration and dates are interpreted in time.Local.
func New(
	p repo.Pool, s repo.Shifts, t repo.Taxis, u repo.Users,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:    p,
		shifts:  s,
		taxis:   t,
		users:   u,
		checker: NewChecker(p, s),
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.maxDuration == 0 {
		uc.maxDuration = model.MaxShiftDuration
	}
	if uc.loc == nil {
		uc.loc = time.Local
	}
	return uc, nil
}

// Location returns the time zone of the calendar dates.
func (uc *UseCase) Location() *time.Location {
	return uc.loc
}

// Checker returns the conflict checker of this use case.
func (uc *UseCase) Checker() *Checker {
	return uc.checker
}

// BookRequest describes one or more shifts with the same clock times
// on different calendar dates. Start and End are "HH:MM" strings.
type BookRequest struct {
	TaxiID   string
	DriverID string
	Dates    []time.Time
	Start    string
	End      string
}

// UpdateRequest describes the new state of an existing shift.
type UpdateRequest struct {
	TaxiID   string
	DriverID string
	Date     time.Time
	Start    string
	End      string
}

// Interval validates the start and end clock times and computes the
// interval of a shift on the given date, following the overnight rule
// of the model.NewInterval function.
func (uc *UseCase) Interval(date time.Time, start, end string) (
	model.Interval, error,
) {
	s, err := model.ParseClock("startTime", start)
	if err != nil {
		return model.Interval{}, cerr.BadRequest(err)
	}
	e, err := model.ParseClock("endTime", end)
	if err != nil {
		return model.Interval{}, cerr.BadRequest(err)
	}
	iv := model.NewInterval(date, s, e, uc.loc)
	if err = iv.Validate(uc.maxDuration); err != nil {
		return model.Interval{}, cerr.BadRequest(err)
	}
	return iv, nil
}

// Book use case books req.TaxiID for req.DriverID on every date of
// req.Dates, in order. Drivers may only book for themselves.
// All inputs are validated before the store is accessed.
//
// When a date conflicts with an existing shift of the taxi (or then
// the driver), a *model.ConflictError wrapped by cerr.Conflict is
// returned and the remaining dates are skipped. Shifts which were
// already written for earlier dates remain booked; they are returned
// alongside the error and are listed in the ConflictError too.
func (uc *UseCase) Book(
	ctx context.Context, a model.Actor, req BookRequest,
) ([]model.Shift, error) {
	if err := a.Validate(); err != nil {
		return nil, cerr.Authentication(err)
	}
	if a.IsDriver() && req.DriverID != a.UID {
		return nil, cerr.Authorization(model.ErrNotYourOwn)
	}
	if len(req.Dates) == 0 {
		return nil, cerr.BadRequest(&model.ValidationError{
			Field: "dates", Reason: "at least one date is required",
		})
	}
	ivs := make([]model.Interval, 0, len(req.Dates))
	for _, d := range req.Dates {
		iv, err := uc.Interval(d, req.Start, req.End)
		if err != nil {
			return nil, err
		}
		ivs = append(ivs, iv)
	}
	booked := make([]model.Shift, 0, len(ivs))
	for i, iv := range ivs {
		s, err := uc.write(ctx, req.TaxiID, req.DriverID, req.Dates[i], iv, nil)
		if err != nil {
			var ce *model.ConflictError
			if errors.As(err, &ce) {
				ce.Booked = booked
			}
			log.Warn(
				ctx, "booking aborted",
				log.Actor("actor", a),
				slog.Int("booked", len(booked)),
				slog.Int("requested", len(ivs)),
				log.Err("err", err),
			)
			return booked, err
		}
		booked = append(booked, *s)
	}
	log.Info(
		ctx, "shifts booked",
		log.Actor("actor", a),
		slog.String("taxi", req.TaxiID),
		slog.String("driver", req.DriverID),
		slog.Int("count", len(booked)),
	)
	return booked, nil
}

// Update use case replaces the time, taxi, and driver of the id shift.
// Only admins may edit shifts. The shift itself is excluded from the
// conflict checks, so it may be moved to an overlapping time range.
func (uc *UseCase) Update(
	ctx context.Context, a model.Actor, id string, req UpdateRequest,
) (*model.Shift, error) {
	if err := a.Validate(); err != nil {
		return nil, cerr.Authentication(err)
	}
	if !a.IsAdmin() {
		return nil, cerr.Authorization(model.ErrAdminOnly)
	}
	iv, err := uc.Interval(req.Date, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	var existing *model.Shift
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		existing, err = uc.shifts.Conn(c).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s, err := uc.write(ctx, req.TaxiID, req.DriverID, req.Date, iv, existing)
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "shift updated",
		log.Actor("actor", a),
		slog.String("shift", id),
		log.Interval("interval", iv),
	)
	return s, nil
}

// write checks and writes one shift in a transaction. The taxi and
// driver records are locked first, so concurrent writes for the same
// taxi or driver are serialized. A nil existing argument creates a new
// shift, otherwise existing is replaced.
func (uc *UseCase) write(
	ctx context.Context,
	taxiID, driverID string,
	date time.Time, iv model.Interval,
	existing *model.Shift,
) (shift *model.Shift, err error) {
	excludeID := ""
	if existing != nil {
		excludeID = existing.ID
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			taxi, err := uc.taxis.Tx(tx).Lock(ctx, taxiID)
			if err != nil {
				return err
			}
			reassigned := existing == nil || existing.TaxiID != taxiID
			if !taxi.Active && reassigned {
				return cerr.BadRequest(&model.ValidationError{
					Field:  "taxiId",
					Reason: fmt.Sprintf("taxi %s is not active", taxi.LicensePlate),
				})
			}
			driver, err := uc.users.Tx(tx).Lock(ctx, driverID)
			if err != nil {
				return err
			}
			if driver.Role != model.RoleDriver {
				return cerr.BadRequest(&model.ValidationError{
					Field:  "driverId",
					Reason: fmt.Sprintf("user %s is not a driver", driverID),
				})
			}
			q := uc.shifts.Tx(tx)
			hit, err := findTx(ctx, q, model.ResourceTaxi, taxiID, iv, excludeID)
			if err != nil {
				return err
			}
			if hit != nil {
				return conflict(model.ResourceTaxi, taxiID, taxi.LicensePlate, date, iv, hit)
			}
			hit, err = findTx(ctx, q, model.ResourceDriver, driverID, iv, excludeID)
			if err != nil {
				return err
			}
			if hit != nil {
				return conflict(model.ResourceDriver, driverID, driver.FullName(), date, iv, hit)
			}
			s := &model.Shift{
				TaxiID:           taxiID,
				TaxiLicensePlate: taxi.LicensePlate,
				DriverID:         driverID,
				DriverFirstName:  driver.FirstName,
				DriverLastName:   driver.LastName,
				Start:            iv.Start,
				End:              iv.End,
			}
			if existing == nil {
				err = q.Create(ctx, s)
			} else {
				s.ID = existing.ID
				s.CreatedAt = existing.CreatedAt
				err = q.Update(ctx, s)
			}
			if err != nil {
				return fmt.Errorf("writing shift: %w", err)
			}
			shift = s
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

func conflict(
	r model.Resource, id, name string,
	date time.Time, iv model.Interval, hit *model.Shift,
) error {
	return cerr.Conflict(&model.ConflictError{
		Resource:        r,
		ResourceID:      id,
		ResourceName:    name,
		Date:            date,
		Interval:        iv,
		ExistingShiftID: hit.ID,
	})
}

// Delete use case deletes the id shift. Drivers may only delete their
// own shifts while admins may delete any shift.
func (uc *UseCase) Delete(ctx context.Context, a model.Actor, id string) error {
	if err := a.Validate(); err != nil {
		return cerr.Authentication(err)
	}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.shifts.Conn(c)
		s, err := q.Get(ctx, id)
		if err != nil {
			return err
		}
		if a.IsDriver() && s.DriverID != a.UID {
			return cerr.Authorization(model.ErrNotYourOwn)
		}
		return q.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Info(ctx, "shift deleted", log.Actor("actor", a), slog.String("shift", id))
	return nil
}

// Get use case returns the id shift. Drivers may only see their own
// shifts.
func (uc *UseCase) Get(
	ctx context.Context, a model.Actor, id string,
) (s *model.Shift, err error) {
	if err = a.Validate(); err != nil {
		return nil, cerr.Authentication(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		s, err = uc.shifts.Conn(c).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if a.IsDriver() && s.DriverID != a.UID {
		return nil, cerr.Authorization(model.ErrNotYourOwn)
	}
	return s, nil
}

// List use case returns the shifts matching f. The DriverID of f is
// overridden for drivers, so they may only list their own shifts.
func (uc *UseCase) List(
	ctx context.Context, a model.Actor, f repo.ShiftsFilter,
) (shifts []model.Shift, err error) {
	if err = a.Validate(); err != nil {
		return nil, cerr.Authentication(err)
	}
	if a.IsDriver() {
		f.DriverID = a.UID
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		shifts, err = uc.shifts.Conn(c).List(ctx, f)
		return err
	})
	return shifts, err
}

// Available use case reports whether the id resource has no shift
// which overlaps the start-end clock times on date, ignoring the
// excludeID shift (if not empty). Drivers may only probe taxis and
// themselves.
// The answer is advisory; a later Book may still observe a conflict.
func (uc *UseCase) Available(
	ctx context.Context, a model.Actor,
	r model.Resource, id string,
	date time.Time, start, end, excludeID string,
) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, cerr.Authentication(err)
	}
	if a.IsDriver() && r == model.ResourceDriver && id != a.UID {
		return false, cerr.Authorization(model.ErrNotYourOwn)
	}
	iv, err := uc.Interval(date, start, end)
	if err != nil {
		return false, err
	}
	busy, err := uc.checker.Check(ctx, r, id, iv, excludeID)
	if err != nil {
		return false, err
	}
	return !busy, nil
}
