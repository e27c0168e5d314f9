// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package shiftsuc_test

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"testing"
	"time"

	"github.com/momeni/taxiweb/pkg/adapter/db/memory"
	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"github.com/momeni/taxiweb/pkg/core/usecase/shiftsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var (
	admin   = model.Actor{UID: "admin", Role: model.RoleAdmin}
	driver1 = model.Actor{UID: "d1", Role: model.RoleDriver}
	driver2 = model.Actor{UID: "d2", Role: model.RoleDriver}
)

type ShiftsTestSuite struct {
	suite.Suite

	ctx  context.Context
	pool *memory.Pool
	uc   *shiftsuc.UseCase
	day  time.Time
}

func TestShiftsTestSuite(t *testing.T) {
	suite.Run(t, new(ShiftsTestSuite))
}

func (ts *ShiftsTestSuite) SetupTest() {
	ts.ctx = context.Background()
	ts.pool = memory.NewPool()
	ts.day = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	for _, u := range []model.UserProfile{
		{UID: "admin", FirstName: "Ada", LastName: "Admin", Role: model.RoleAdmin},
		{UID: "d1", FirstName: "Dora", LastName: "Diaz", Role: model.RoleDriver},
		{UID: "d2", FirstName: "Dan", LastName: "Doe", Role: model.RoleDriver},
	} {
		ts.pool.PutUser(u)
	}
	err := ts.pool.Conn(ts.ctx, func(ctx context.Context, c repo.Conn) error {
		q := memory.Taxis{}.Conn(c)
		for _, t := range []model.Taxi{
			{ID: "AB-123", LicensePlate: "AB 123", Active: true},
			{ID: "CD-456", LicensePlate: "CD 456", Active: true},
			{ID: "OLD-1", LicensePlate: "OLD 1", Active: false},
		} {
			if err := q.Create(ctx, &t); err != nil {
				return err
			}
		}
		return nil
	})
	ts.Require().NoError(err)
	ts.uc, err = shiftsuc.New(
		ts.pool, memory.Shifts{}, memory.Taxis{}, memory.Users{},
		shiftsuc.WithLocation(time.UTC),
	)
	ts.Require().NoError(err)
}

func (ts *ShiftsTestSuite) date(days int) time.Time {
	return ts.day.AddDate(0, 0, days)
}

func (ts *ShiftsTestSuite) book(
	a model.Actor, taxi, driver, start, end string, days ...int,
) ([]model.Shift, error) {
	dates := make([]time.Time, 0, len(days))
	for _, d := range days {
		dates = append(dates, ts.date(d))
	}
	return ts.uc.Book(ts.ctx, a, shiftsuc.BookRequest{
		TaxiID: taxi, DriverID: driver, Dates: dates, Start: start, End: end,
	})
}

func (ts *ShiftsTestSuite) all() []model.Shift {
	shifts, err := ts.uc.List(ts.ctx, admin, repo.ShiftsFilter{})
	ts.Require().NoError(err)
	return shifts
}

func (ts *ShiftsTestSuite) at(days, hour, minute int) time.Time {
	return ts.date(days).Add(
		time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute,
	)
}

func (ts *ShiftsTestSuite) TestOvernightShift() {
	booked, err := ts.book(admin, "AB-123", "d1", "22:00", "02:00", 0)
	ts.Require().NoError(err)
	ts.Require().Len(booked, 1)
	s := booked[0]
	ts.Equal(ts.at(0, 22, 0), s.Start)
	ts.Equal(ts.at(1, 2, 0), s.End)
	ts.Equal(4*time.Hour, s.End.Sub(s.Start))
	ts.Equal("AB 123", s.TaxiLicensePlate)
	ts.Equal("Dora", s.DriverFirstName)
	ts.Equal("Diaz", s.DriverLastName)
}

func (ts *ShiftsTestSuite) TestDurationCeiling() {
	_, err := ts.book(admin, "AB-123", "d1", "09:00", "20:00", 0)
	var ve *model.ValidationError
	ts.Require().ErrorAs(err, &ve)
	ts.Equal("endTime", ve.Field)
	ts.Equal(http.StatusBadRequest, cerr.StatusOf(err))
	ts.Empty(ts.all())

	booked, err := ts.book(admin, "AB-123", "d1", "09:00", "19:00", 0)
	ts.Require().NoError(err)
	ts.Equal(10*time.Hour, booked[0].End.Sub(booked[0].Start))
}

func (ts *ShiftsTestSuite) TestMalformedClockIsRejectedBeforeStoreAccess() {
	for _, c := range []struct{ start, end, field string }{
		{"9:00", "17:00", "startTime"},
		{"09:00", "24:00", "endTime"},
		{"09:00", "09:00", "endTime"},
	} {
		_, err := ts.book(admin, "missing-taxi", "d1", c.start, c.end, 0)
		var ve *model.ValidationError
		ts.Require().ErrorAs(err, &ve, "%s-%s", c.start, c.end)
		ts.Equal(c.field, ve.Field)
	}
}

func (ts *ShiftsTestSuite) TestTouchingShiftsDoNotConflict() {
	_, err := ts.book(admin, "AB-123", "d1", "09:00", "17:00", 0)
	ts.Require().NoError(err)
	_, err = ts.book(admin, "AB-123", "d2", "17:00", "20:00", 0)
	ts.Require().NoError(err)
	_, err = ts.book(admin, "AB-123", "d2", "05:00", "09:00", 0)
	ts.Require().NoError(err)
	ts.Len(ts.all(), 3)
}

func (ts *ShiftsTestSuite) TestStrictOverlapOnTaxi() {
	existing, err := ts.book(admin, "AB-123", "d1", "09:00", "17:00", 0)
	ts.Require().NoError(err)
	_, err = ts.book(admin, "AB-123", "d2", "16:59", "18:00", 0)
	var ce *model.ConflictError
	ts.Require().ErrorAs(err, &ce)
	ts.Equal(http.StatusConflict, cerr.StatusOf(err))
	ts.Equal(model.ResourceTaxi, ce.Resource)
	ts.Equal("AB 123", ce.ResourceName)
	ts.Equal(existing[0].ID, ce.ExistingShiftID)
	ts.Equal(ts.at(0, 16, 59), ce.Interval.Start)
	ts.Equal(ts.date(0), ce.Date)
}

func (ts *ShiftsTestSuite) TestOverlapOnDriverAcrossTaxis() {
	_, err := ts.book(admin, "AB-123", "d1", "09:00", "17:00", 0)
	ts.Require().NoError(err)
	_, err = ts.book(admin, "CD-456", "d1", "12:00", "14:00", 0)
	var ce *model.ConflictError
	ts.Require().ErrorAs(err, &ce)
	ts.Equal(model.ResourceDriver, ce.Resource)
	ts.Equal("Dora Diaz", ce.ResourceName)
}

func (ts *ShiftsTestSuite) TestOvernightOverlapsNextMorning() {
	_, err := ts.book(admin, "AB-123", "d1", "22:00", "04:00", 0)
	ts.Require().NoError(err)
	_, err = ts.book(admin, "AB-123", "d2", "03:00", "08:00", 1)
	var ce *model.ConflictError
	ts.Require().ErrorAs(err, &ce)
	ts.Equal(model.ResourceTaxi, ce.Resource)
}

func (ts *ShiftsTestSuite) TestMultiDatePartialFailure() {
	_, err := ts.book(admin, "AB-123", "d2", "10:00", "12:00", 1)
	ts.Require().NoError(err)

	booked, err := ts.book(admin, "AB-123", "d1", "09:00", "17:00", 0, 1, 2)
	var ce *model.ConflictError
	ts.Require().ErrorAs(err, &ce)
	ts.Equal(ts.date(1), ce.Date)
	ts.Require().Len(booked, 1)
	ts.Equal(ts.at(0, 9, 0), booked[0].Start)
	ts.Equal(booked, ce.Booked)

	d1, err := ts.uc.List(ts.ctx, admin, repo.ShiftsFilter{DriverID: "d1"})
	ts.Require().NoError(err)
	ts.Require().Len(d1, 1, "only the first date remains booked")
	ts.Equal(booked[0].ID, d1[0].ID)
}

func (ts *ShiftsTestSuite) TestInactiveTaxiMayNotBeBooked() {
	_, err := ts.book(admin, "OLD-1", "d1", "09:00", "17:00", 0)
	var ve *model.ValidationError
	ts.Require().ErrorAs(err, &ve)
	ts.Equal("taxiId", ve.Field)
}

func (ts *ShiftsTestSuite) TestUnknownTaxiAndNonDriver() {
	_, err := ts.book(admin, "ZZ-9", "d1", "09:00", "17:00", 0)
	ts.Equal(http.StatusNotFound, cerr.StatusOf(err))

	_, err = ts.book(admin, "AB-123", "admin", "09:00", "17:00", 0)
	var ve *model.ValidationError
	ts.Require().ErrorAs(err, &ve)
	ts.Equal("driverId", ve.Field)
}

func (ts *ShiftsTestSuite) TestUpdateExcludesItself() {
	booked, err := ts.book(admin, "AB-123", "d1", "09:00", "17:00", 0)
	ts.Require().NoError(err)
	s, err := ts.uc.Update(ts.ctx, admin, booked[0].ID, shiftsuc.UpdateRequest{
		TaxiID: "AB-123", DriverID: "d1", Date: ts.date(0),
		Start: "10:00", End: "18:00",
	})
	ts.Require().NoError(err)
	ts.Equal(booked[0].ID, s.ID)
	ts.Equal(booked[0].CreatedAt, s.CreatedAt)
	ts.Equal(ts.at(0, 10, 0), s.Start)
	ts.Len(ts.all(), 1)
}

func (ts *ShiftsTestSuite) TestUpdateDetectsOtherShifts() {
	_, err := ts.book(admin, "AB-123", "d1", "09:00", "12:00", 0)
	ts.Require().NoError(err)
	other, err := ts.book(admin, "CD-456", "d2", "09:00", "12:00", 0)
	ts.Require().NoError(err)
	_, err = ts.uc.Update(ts.ctx, admin, other[0].ID, shiftsuc.UpdateRequest{
		TaxiID: "AB-123", DriverID: "d2", Date: ts.date(0),
		Start: "11:00", End: "13:00",
	})
	var ce *model.ConflictError
	ts.Require().ErrorAs(err, &ce)
	ts.Equal(model.ResourceTaxi, ce.Resource)
}

func (ts *ShiftsTestSuite) TestDriverCapabilities() {
	_, err := ts.book(driver1, "AB-123", "d2", "09:00", "17:00", 0)
	ts.Equal(http.StatusForbidden, cerr.StatusOf(err))

	own, err := ts.book(driver1, "AB-123", "d1", "09:00", "17:00", 0)
	ts.Require().NoError(err)

	_, err = ts.uc.Update(ts.ctx, driver1, own[0].ID, shiftsuc.UpdateRequest{
		TaxiID: "AB-123", DriverID: "d1", Date: ts.date(0),
		Start: "10:00", End: "17:00",
	})
	ts.Equal(http.StatusForbidden, cerr.StatusOf(err))

	err = ts.uc.Delete(ts.ctx, driver2, own[0].ID)
	ts.Equal(http.StatusForbidden, cerr.StatusOf(err))

	listed, err := ts.uc.List(ts.ctx, driver2, repo.ShiftsFilter{DriverID: "d1"})
	ts.Require().NoError(err)
	ts.Empty(listed)

	ts.Require().NoError(ts.uc.Delete(ts.ctx, driver1, own[0].ID))
	ts.Empty(ts.all())

	_, err = ts.book(model.Actor{UID: "x"}, "AB-123", "d1", "09:00", "17:00", 0)
	ts.Equal(http.StatusUnauthorized, cerr.StatusOf(err))
}

func (ts *ShiftsTestSuite) TestAvailable() {
	_, err := ts.book(admin, "AB-123", "d1", "09:00", "17:00", 0)
	ts.Require().NoError(err)
	free, err := ts.uc.Available(
		ts.ctx, admin, model.ResourceTaxi, "AB-123",
		ts.date(0), "17:00", "19:00", "",
	)
	ts.Require().NoError(err)
	ts.True(free)
	free, err = ts.uc.Available(
		ts.ctx, admin, model.ResourceDriver, "d1",
		ts.date(0), "08:00", "09:01", "",
	)
	ts.Require().NoError(err)
	ts.False(free)
	_, err = ts.uc.Available(
		ts.ctx, driver2, model.ResourceDriver, "d1",
		ts.date(0), "08:00", "09:01", "",
	)
	ts.Equal(http.StatusForbidden, cerr.StatusOf(err))
}

func (ts *ShiftsTestSuite) TestNoOverlapAfterRandomBookings() {
	rnd := rand.New(rand.NewSource(42))
	taxis := []string{"AB-123", "CD-456"}
	drivers := []string{"d1", "d2"}
	for i := 0; i < 200; i++ {
		start := rnd.Intn(24 * 4)
		length := 1 + rnd.Intn(10*4)
		end := (start + length) % (24 * 4)
		_, _ = ts.book(
			admin,
			taxis[rnd.Intn(len(taxis))],
			drivers[rnd.Intn(len(drivers))],
			model.Clock(start*15).String(),
			model.Clock(end*15).String(),
			rnd.Intn(3),
		)
	}
	shifts := ts.all()
	ts.NotEmpty(shifts)
	for i := range shifts {
		for j := i + 1; j < len(shifts); j++ {
			a, b := shifts[i], shifts[j]
			if !a.Interval().Overlaps(b.Interval()) {
				continue
			}
			ts.NotEqual(a.TaxiID, b.TaxiID, fmt.Sprintf("%s and %s", a.ID, b.ID))
			ts.NotEqual(a.DriverID, b.DriverID, fmt.Sprintf("%s and %s", a.ID, b.ID))
		}
	}
}

func TestOptions(t *testing.T) {
	p := memory.NewPool()
	_, err := shiftsuc.New(
		p, memory.Shifts{}, memory.Taxis{}, memory.Users{},
		shiftsuc.WithMaxDuration(11*time.Hour),
	)
	require.Error(t, err)

	uc, err := shiftsuc.New(
		p, memory.Shifts{}, memory.Taxis{}, memory.Users{},
		shiftsuc.WithMaxDuration(8*time.Hour),
	)
	require.NoError(t, err)
	assert.Equal(t, time.Local, uc.Location())
	_, err = uc.Interval(time.Now(), "08:00", "16:30")
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
}
