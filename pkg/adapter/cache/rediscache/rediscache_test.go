// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rediscache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/momeni/taxiweb/pkg/adapter/cache/rediscache"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveTaxis(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	c, err := rediscache.New(ctx, srv.Addr(), "", 0, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	taxis, err := c.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, taxis, "empty cache is a miss")

	require.NoError(t, c.StoreActive(ctx, []model.Taxi{}))
	taxis, err = c.Active(ctx)
	require.NoError(t, err)
	assert.NotNil(t, taxis, "empty list is a hit")
	assert.Empty(t, taxis)

	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	want := []model.Taxi{{
		ID: "AB-123", LicensePlate: "AB 123", Active: true,
		CreatedAt: created, CreatedBy: "admin",
	}}
	require.NoError(t, c.StoreActive(ctx, want))
	taxis, err = c.Active(ctx)
	require.NoError(t, err)
	require.Len(t, taxis, 1)
	assert.Equal(t, want[0].ID, taxis[0].ID)
	assert.True(t, created.Equal(taxis[0].CreatedAt))

	srv.FastForward(2 * time.Minute)
	taxis, err = c.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, taxis, "entry expires after its TTL")

	require.NoError(t, c.StoreActive(ctx, want))
	require.NoError(t, c.Invalidate(ctx))
	taxis, err = c.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, taxis)
}

func TestNewFailsWithoutServer(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()
	_, err := rediscache.New(context.Background(), addr, "", 0, time.Minute)
	assert.Error(t, err)
}
