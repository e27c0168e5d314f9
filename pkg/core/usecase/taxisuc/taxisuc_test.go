// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package taxisuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/momeni/taxiweb/pkg/adapter/db/memory"
	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"github.com/momeni/taxiweb/pkg/core/usecase/taxisuc"
	"github.com/stretchr/testify/suite"
)

var (
	admin  = model.Actor{UID: "admin", Role: model.RoleAdmin}
	driver = model.Actor{UID: "d1", Role: model.RoleDriver}

	errInjected = errors.New("injected failure")
)

// failingShifts wraps the memory shifts repository, so its Repoint
// fails after applying the requested changes.
type failingShifts struct {
	memory.Shifts
}

func (fs failingShifts) Tx(tx repo.Tx) repo.ShiftsTxQueryer {
	return failingTxQueryer{fs.Shifts.Tx(tx)}
}

type failingTxQueryer struct {
	repo.ShiftsTxQueryer
}

func (q failingTxQueryer) Repoint(
	ctx context.Context, ids []string, taxiID, plate string,
) error {
	if err := q.ShiftsTxQueryer.Repoint(ctx, ids, taxiID, plate); err != nil {
		return err
	}
	return errInjected
}

// fakeCache is an in-process ActiveCache which counts its calls.
type fakeCache struct {
	taxis       []model.Taxi
	hits        int
	invalidated int
}

func (c *fakeCache) Active(context.Context) ([]model.Taxi, error) {
	if c.taxis != nil {
		c.hits++
	}
	return c.taxis, nil
}

func (c *fakeCache) StoreActive(_ context.Context, taxis []model.Taxi) error {
	c.taxis = taxis
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.taxis = nil
	c.invalidated++
	return nil
}

type TaxisTestSuite struct {
	suite.Suite

	ctx   context.Context
	pool  *memory.Pool
	cache *fakeCache
	uc    *taxisuc.UseCase

	created time.Time
}

func TestTaxisTestSuite(t *testing.T) {
	suite.Run(t, new(TaxisTestSuite))
}

func (ts *TaxisTestSuite) SetupTest() {
	ts.ctx = context.Background()
	ts.pool = memory.NewPool()
	ts.cache = &fakeCache{}
	ts.created = time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	ts.uc = ts.newUseCase(memory.Shifts{})
	err := ts.pool.Conn(ts.ctx, func(ctx context.Context, c repo.Conn) error {
		err := memory.Taxis{}.Conn(c).Create(ctx, &model.Taxi{
			ID: "AB-123", LicensePlate: "AB 123", Active: true,
			CreatedAt: ts.created, CreatedBy: "founder",
		})
		if err != nil {
			return err
		}
		q := memory.Shifts{}.Conn(c)
		for i := 0; i < 2; i++ {
			err = q.Create(ctx, &model.Shift{
				TaxiID:           "AB-123",
				TaxiLicensePlate: "AB 123",
				DriverID:         "d1",
				Start:            ts.created.AddDate(0, 0, i),
				End:              ts.created.AddDate(0, 0, i).Add(time.Hour),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	ts.Require().NoError(err)
}

func (ts *TaxisTestSuite) newUseCase(s repo.Shifts) *taxisuc.UseCase {
	uc, err := taxisuc.New(
		ts.pool, memory.Taxis{}, s, taxisuc.WithActiveCache(ts.cache),
	)
	ts.Require().NoError(err)
	return uc
}

func (ts *TaxisTestSuite) taxis() []model.Taxi {
	taxis, err := ts.uc.List(ts.ctx, admin)
	ts.Require().NoError(err)
	return taxis
}

func (ts *TaxisTestSuite) shifts() []model.Shift {
	var shifts []model.Shift
	err := ts.pool.Conn(ts.ctx, func(ctx context.Context, c repo.Conn) (err error) {
		shifts, err = memory.Shifts{}.Conn(c).List(ctx, repo.ShiftsFilter{})
		return err
	})
	ts.Require().NoError(err)
	return shifts
}

func (ts *TaxisTestSuite) TestCreateNormalizesPlate() {
	t, err := ts.uc.Create(ts.ctx, admin, "  b xy\t 42 ", true)
	ts.Require().NoError(err)
	ts.Equal("B-XY-42", t.ID)
	ts.Equal("b xy\t 42", t.LicensePlate)
	ts.Equal("admin", t.CreatedBy)

	_, err = ts.uc.Create(ts.ctx, admin, "B XY 42", true)
	var ce *model.CollisionError
	ts.Require().ErrorAs(err, &ce)
	ts.Equal(http.StatusConflict, cerr.StatusOf(err))

	_, err = ts.uc.Create(ts.ctx, admin, "   ", true)
	ts.Equal(http.StatusBadRequest, cerr.StatusOf(err))

	_, err = ts.uc.Create(ts.ctx, driver, "EF 789", true)
	ts.Equal(http.StatusForbidden, cerr.StatusOf(err))
}

func (ts *TaxisTestSuite) TestRenameMovesTaxiAndShifts() {
	res, err := ts.uc.Edit(ts.ctx, admin, "AB-123", "cd 456", false)
	ts.Require().NoError(err)
	ts.True(res.Renamed)
	ts.Equal("AB 123", res.OldPlate)
	ts.Equal("cd 456", res.NewPlate)
	ts.Equal(int64(2), res.ShiftsUpdated)

	taxis := ts.taxis()
	ts.Require().Len(taxis, 1)
	t := taxis[0]
	ts.Equal("CD-456", t.ID)
	ts.Equal("cd 456", t.LicensePlate)
	ts.False(t.Active)
	ts.Equal(ts.created, t.CreatedAt)
	ts.Equal("founder", t.CreatedBy)

	for _, s := range ts.shifts() {
		ts.Equal("CD-456", s.TaxiID)
		ts.Equal("cd 456", s.TaxiLicensePlate)
	}
}

func (ts *TaxisTestSuite) TestRenameIsAllOrNothing() {
	uc := ts.newUseCase(failingShifts{})
	_, err := uc.Edit(ts.ctx, admin, "AB-123", "CD 456", true)
	ts.Require().ErrorIs(err, errInjected)

	taxis := ts.taxis()
	ts.Require().Len(taxis, 1)
	ts.Equal("AB-123", taxis[0].ID)
	ts.Equal("AB 123", taxis[0].LicensePlate)
	shifts := ts.shifts()
	ts.Len(shifts, 2)
	for _, s := range shifts {
		ts.Equal("AB-123", s.TaxiID)
		ts.Equal("AB 123", s.TaxiLicensePlate)
	}
}

func (ts *TaxisTestSuite) TestRenameCollision() {
	_, err := ts.uc.Create(ts.ctx, admin, "CD 456", false)
	ts.Require().NoError(err)
	before := ts.taxis()

	_, err = ts.uc.Edit(ts.ctx, admin, "AB-123", "CD  456", true)
	var ce *model.CollisionError
	ts.Require().ErrorAs(err, &ce)
	ts.Equal("CD-456", ce.TaxiID)
	ts.Equal(before, ts.taxis())
	for _, s := range ts.shifts() {
		ts.Equal("AB-123", s.TaxiID)
	}
}

func (ts *TaxisTestSuite) TestRenameOfVanishedTaxi() {
	_, err := ts.uc.Edit(ts.ctx, admin, "ZZ-1", "ZZ 2", true)
	var nf *model.NotFoundError
	ts.Require().ErrorAs(err, &nf)
	ts.Equal(http.StatusNotFound, cerr.StatusOf(err))
}

func (ts *TaxisTestSuite) TestSimpleEditCascadesPlate() {
	res, err := ts.uc.Edit(ts.ctx, admin, "AB-123", "ab 123", true)
	ts.Require().NoError(err)
	ts.False(res.Renamed)
	ts.Equal(int64(2), res.ShiftsUpdated)
	ts.Equal("AB-123", res.Taxi.ID)
	for _, s := range ts.shifts() {
		ts.Equal("ab 123", s.TaxiLicensePlate)
	}

	res, err = ts.uc.Edit(ts.ctx, admin, "AB-123", "ab 123", false)
	ts.Require().NoError(err)
	ts.Equal(int64(0), res.ShiftsUpdated)
	ts.False(res.Taxi.Active)
}

func (ts *TaxisTestSuite) TestDeleteIsBlockedByShifts() {
	err := ts.uc.Delete(ts.ctx, admin, "AB-123")
	var iu *model.TaxiInUseError
	ts.Require().ErrorAs(err, &iu)
	ts.Equal(int64(2), iu.Shifts)
	ts.Equal(http.StatusConflict, cerr.StatusOf(err))

	_, err = ts.uc.Create(ts.ctx, admin, "CD 456", true)
	ts.Require().NoError(err)
	ts.Require().NoError(ts.uc.Delete(ts.ctx, admin, "CD-456"))
	ts.Len(ts.taxis(), 1)
}

func (ts *TaxisTestSuite) TestDriversSeeCachedActiveTaxis() {
	_, err := ts.uc.Create(ts.ctx, admin, "CD 456", false)
	ts.Require().NoError(err)

	taxis, err := ts.uc.List(ts.ctx, driver)
	ts.Require().NoError(err)
	ts.Require().Len(taxis, 1)
	ts.Equal("AB-123", taxis[0].ID)
	ts.Equal(0, ts.cache.hits)

	_, err = ts.uc.List(ts.ctx, driver)
	ts.Require().NoError(err)
	ts.Equal(1, ts.cache.hits)

	_, err = ts.uc.SetActive(ts.ctx, admin, "CD-456", true)
	ts.Require().NoError(err)
	taxis, err = ts.uc.List(ts.ctx, driver)
	ts.Require().NoError(err)
	ts.Len(taxis, 2)
	ts.Equal(1, ts.cache.hits)

	_, err = ts.uc.Get(ts.ctx, driver, "CD-456")
	ts.Require().NoError(err)
}

func (ts *TaxisTestSuite) TestDriversDoNotSeeInactiveTaxi() {
	_, err := ts.uc.SetActive(ts.ctx, admin, "AB-123", false)
	ts.Require().NoError(err)
	_, err = ts.uc.Get(ts.ctx, driver, "AB-123")
	ts.Equal(http.StatusNotFound, cerr.StatusOf(err))
	t, err := ts.uc.Get(ts.ctx, admin, "AB-123")
	ts.Require().NoError(err)
	ts.False(t.Active)
}
