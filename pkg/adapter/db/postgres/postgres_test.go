// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/momeni/taxiweb/internal/test/dbcontainer"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres/schema"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres/shiftsrp"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres/taxisrp"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"github.com/momeni/taxiweb/pkg/core/usecase/driversuc"
	"github.com/momeni/taxiweb/pkg/core/usecase/shiftsuc"
	"github.com/momeni/taxiweb/pkg/core/usecase/taxisuc"
	"github.com/stretchr/testify/suite"
)

var admin = model.Actor{UID: "admin", Role: model.RoleAdmin}

type PostgresTestSuite struct {
	suite.Suite

	ctx  context.Context
	pool *postgres.Pool
	dfrs []func()

	shifts  *shiftsuc.UseCase
	taxis   *taxisuc.UseCase
	drivers *driversuc.UseCase
}

func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration tests need a postgres container")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (ts *PostgresTestSuite) SetupSuite() {
	ts.ctx = context.Background()
	_, pool, dfrs, ok := dbcontainer.New(ts.ctx, time.Minute, ts.T())
	ts.dfrs = dfrs
	ts.Require().True(ok)
	ts.pool = pool

	var err error
	ts.shifts, err = shiftsuc.New(
		pool, shiftsrp.New(), taxisrp.New(), usersrp.New(),
		shiftsuc.WithLocation(time.UTC),
	)
	ts.Require().NoError(err)
	ts.taxis, err = taxisuc.New(pool, taxisrp.New(), shiftsrp.New())
	ts.Require().NoError(err)
	ts.drivers = driversuc.New(pool, usersrp.New(), shiftsrp.New())

	_, err = ts.drivers.CreateAdmin(ts.ctx, driversuc.NewProfile{
		UID: "admin", Email: "admin@example.com", FirstName: "Ada", LastName: "Admin",
	})
	ts.Require().NoError(err)
	for _, uid := range []string{"d1", "d2"} {
		_, err = ts.drivers.CreateDriver(ts.ctx, admin, driversuc.NewProfile{
			UID: uid, Email: uid + "@example.com", FirstName: "Driver", LastName: uid,
			Employment: model.EmploymentTemporary,
		})
		ts.Require().NoError(err)
	}
}

func (ts *PostgresTestSuite) TearDownSuite() {
	for i := len(ts.dfrs) - 1; i >= 0; i-- {
		ts.dfrs[i]()
	}
}

func (ts *PostgresTestSuite) SetupTest() {
	err := ts.pool.Conn(ts.ctx, func(ctx context.Context, c repo.Conn) error {
		_, err := c.(*postgres.Conn).Exec(ctx, "DELETE FROM shifts; DELETE FROM taxis")
		return err
	})
	ts.Require().NoError(err)
}

func (ts *PostgresTestSuite) TestSchemaInitIsIdempotent() {
	err := ts.pool.Conn(ts.ctx, func(ctx context.Context, c repo.Conn) error {
		return schema.Init(ctx, c.(*postgres.Conn))
	})
	ts.NoError(err)
}

func (ts *PostgresTestSuite) TestBookingConflicts() {
	_, err := ts.taxis.Create(ts.ctx, admin, "AB 123", true)
	ts.Require().NoError(err)
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	book := func(driver, start, end string, days ...int) ([]model.Shift, error) {
		var dates []time.Time
		for _, d := range days {
			dates = append(dates, day.AddDate(0, 0, d))
		}
		return ts.shifts.Book(ts.ctx, admin, shiftsuc.BookRequest{
			TaxiID: "AB-123", DriverID: driver, Dates: dates,
			Start: start, End: end,
		})
	}

	_, err = book("d1", "22:00", "02:00", 0)
	ts.Require().NoError(err)
	_, err = book("d2", "02:00", "06:00", 1)
	ts.Require().NoError(err, "touching shifts do not conflict")

	booked, err := book("d2", "21:00", "23:00", 2, 0, 3)
	var ce *model.ConflictError
	ts.Require().ErrorAs(err, &ce)
	ts.Equal(model.ResourceTaxi, ce.Resource)
	ts.Equal(day, ce.Date)
	ts.Len(booked, 1)

	all, err := ts.shifts.List(ts.ctx, admin, repo.ShiftsFilter{TaxiID: "AB-123"})
	ts.Require().NoError(err)
	ts.Len(all, 3)
}

func (ts *PostgresTestSuite) TestRenameAndDelete() {
	_, err := ts.taxis.Create(ts.ctx, admin, "AB 123", true)
	ts.Require().NoError(err)
	booked, err := ts.shifts.Book(ts.ctx, admin, shiftsuc.BookRequest{
		TaxiID: "AB-123", DriverID: "d1",
		Dates: []time.Time{time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		Start: "09:00", End: "17:00",
	})
	ts.Require().NoError(err)

	_, err = ts.taxis.Create(ts.ctx, admin, "CD 456", true)
	ts.Require().NoError(err)
	_, err = ts.taxis.Edit(ts.ctx, admin, "AB-123", "cd 456", true)
	var ce *model.CollisionError
	ts.Require().ErrorAs(err, &ce)

	res, err := ts.taxis.Edit(ts.ctx, admin, "AB-123", "EF 789", false)
	ts.Require().NoError(err)
	ts.True(res.Renamed)
	ts.Equal(int64(1), res.ShiftsUpdated)

	s, err := ts.shifts.Get(ts.ctx, admin, booked[0].ID)
	ts.Require().NoError(err)
	ts.Equal("EF-789", s.TaxiID)
	ts.Equal("EF 789", s.TaxiLicensePlate)

	err = ts.taxis.Delete(ts.ctx, admin, "EF-789")
	ts.Equal(http.StatusConflict, cerr.StatusOf(err))
	ts.Require().NoError(ts.shifts.Delete(ts.ctx, admin, s.ID))
	ts.Require().NoError(ts.taxis.Delete(ts.ctx, admin, "EF-789"))

	_, err = ts.shifts.Get(ts.ctx, admin, "not-a-uuid")
	ts.Equal(http.StatusNotFound, cerr.StatusOf(err))
}

func (ts *PostgresTestSuite) TestDriverNameCascade() {
	_, err := ts.taxis.Create(ts.ctx, admin, "AB 123", true)
	ts.Require().NoError(err)
	_, err = ts.shifts.Book(ts.ctx, admin, shiftsuc.BookRequest{
		TaxiID: "AB-123", DriverID: "d2",
		Dates: []time.Time{time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)},
		Start: "09:00", End: "17:00",
	})
	ts.Require().NoError(err)
	res, err := ts.drivers.Edit(ts.ctx, admin, "d2", "Dana", "d2", model.EmploymentFullTime)
	ts.Require().NoError(err)
	ts.Equal(int64(1), res.ShiftsUpdated)

	u, err := ts.drivers.Profile(ts.ctx, "d2")
	ts.Require().NoError(err)
	ts.Equal(model.EmploymentFullTime, u.Employment)
	ts.Equal(model.RoleDriver, u.Role)
}
