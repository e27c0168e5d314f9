// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory_test

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	taxis  memory.Taxis
	shifts memory.Shifts
	users  memory.Users
)

func seedTaxi(t *testing.T, p *memory.Pool, plate string) *model.Taxi {
	t.Helper()
	tx := &model.Taxi{
		ID: model.NormalizePlate(plate), LicensePlate: plate, Active: true,
	}
	err := p.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		return taxis.Conn(c).Create(ctx, tx)
	})
	require.NoError(t, err)
	return tx
}

func TestTxCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	p := memory.NewPool()
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return taxis.Tx(tx).Create(ctx, &model.Taxi{
				ID: "AB-123", LicensePlate: "AB 123",
			})
		})
	})
	require.NoError(t, err)
	_ = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ok, err := taxis.Conn(c).Exists(ctx, "AB-123")
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
}

func TestTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	p := memory.NewPool()
	seedTaxi(t, p, "AB 123")
	boom := errors.New("boom")
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := taxis.Tx(tx)
			require.NoError(t, q.Delete(ctx, "AB-123"))
			require.NoError(t, q.Create(ctx, &model.Taxi{ID: "CD-456"}))
			return boom
		})
	})
	require.ErrorIs(t, err, boom)
	_ = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		list, err := taxis.Conn(c).List(ctx, false)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "AB-123", list[0].ID)
		return nil
	})
}

func TestTxRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	p := memory.NewPool()
	seedTaxi(t, p, "AB 123")
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			require.NoError(t, taxis.Tx(tx).Delete(ctx, "AB-123"))
			panic("unexpected")
		})
	})
	require.ErrorContains(t, err, "panicked: unexpected")
	_ = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ok, err := taxis.Conn(c).Exists(ctx, "AB-123")
		require.NoError(t, err)
		assert.True(t, ok, "deletion must be rolled back")
		return nil
	})
}

func TestTaxisCreateCollision(t *testing.T) {
	ctx := context.Background()
	p := memory.NewPool()
	seedTaxi(t, p, "AB 123")
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return taxis.Conn(c).Create(ctx, &model.Taxi{
			ID: "AB-123", LicensePlate: "ab  123",
		})
	})
	var ce *model.CollisionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "AB-123", ce.TaxiID)
	assert.Equal(t, http.StatusConflict, cerr.StatusOf(err))
}

func TestShiftsRangeQueries(t *testing.T) {
	ctx := context.Background()
	p := memory.NewPool()
	d := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	mk := func(taxi, driver string, from, to int) *model.Shift {
		return &model.Shift{
			TaxiID:   taxi,
			DriverID: driver,
			Start:    d.Add(time.Duration(from) * time.Hour),
			End:      d.Add(time.Duration(to) * time.Hour),
		}
	}
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := shifts.Conn(c)
		for _, s := range []*model.Shift{
			mk("AB-123", "d1", 6, 10),
			mk("AB-123", "d2", 12, 18),
			mk("CD-456", "d1", 12, 18),
		} {
			if err := q.Create(ctx, s); err != nil {
				return err
			}
		}
		after, err := q.EndingAfter(ctx, model.ResourceTaxi, "AB-123", d.Add(10*time.Hour))
		require.NoError(t, err)
		require.Len(t, after, 1)
		assert.Equal(t, "d2", after[0].DriverID)

		before, err := q.StartingBefore(ctx, model.ResourceDriver, "d1", d.Add(12*time.Hour))
		require.NoError(t, err)
		require.Len(t, before, 1)
		assert.Equal(t, "AB-123", before[0].TaxiID)

		listed, err := q.List(ctx, repo.ShiftsFilter{
			From: d.Add(9 * time.Hour), To: d.Add(13 * time.Hour),
		})
		require.NoError(t, err)
		assert.Len(t, listed, 3)
		return nil
	})
	require.NoError(t, err)
}

func TestRepointRequiresAllShifts(t *testing.T) {
	ctx := context.Background()
	p := memory.NewPool()
	s := &model.Shift{TaxiID: "AB-123", DriverID: "d1"}
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if err := shifts.Conn(c).Create(ctx, s); err != nil {
			return err
		}
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return shifts.Tx(tx).Repoint(ctx, []string{s.ID, "missing"}, "CD-456", "CD 456")
		})
	})
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
	_ = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		got, err := shifts.Conn(c).Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "AB-123", got.TaxiID)
		return nil
	})
}

func TestUsersListSortsByName(t *testing.T) {
	ctx := context.Background()
	p := memory.NewPool()
	p.PutUser(model.UserProfile{UID: "1", FirstName: "Zoe", LastName: "Berg", Role: model.RoleDriver})
	p.PutUser(model.UserProfile{UID: "2", FirstName: "Anna", LastName: "Berg", Role: model.RoleDriver})
	p.PutUser(model.UserProfile{UID: "3", FirstName: "Max", LastName: "Adler", Role: model.RoleDriver})
	p.PutUser(model.UserProfile{UID: "4", FirstName: "Root", LastName: "Admin", Role: model.RoleAdmin})
	_ = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		list, err := users.Conn(c).List(ctx, model.RoleDriver)
		require.NoError(t, err)
		var uids []string
		for _, u := range list {
			uids = append(uids, u.UID)
		}
		assert.Equal(t, []string{"3", "2", "1"}, uids)
		return nil
	})
}
