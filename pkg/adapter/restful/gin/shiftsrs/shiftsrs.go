// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package shiftsrs realizes the shifts resource, allowing the shifts
// booking REST APIs to be accepted and delegated to the shifts use
// cases respectively. It also serves the availability probe which
// forms need before submitting a booking.
package shiftsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/authn"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/taxiweb/pkg/core/usecase/shiftsuc"
)

type resource struct {
	shifts func() *shiftsuc.UseCase
}

// Register instantiates a resource adapting the shifts use case
// with the relevant REST APIs including:
//  1. GET request to /shifts in order to list shifts by taxi, driver,
//     and date range,
//  2. POST request to /shifts in order to book one or more dates,
//     either listed explicitly or expanded from a recurrence rule,
//  3. GET, PUT, and DELETE requests to /shifts/:sid in order to fetch,
//     edit, or delete one shift,
//  4. GET request to /availability in order to check if a taxi or
//     driver is free in a given time window.
func Register(r *gin.RouterGroup, shifts func() *shiftsuc.UseCase) {
	rs := &resource{shifts: shifts}
	r.GET("shifts", rs.List)
	r.POST("shifts", rs.Book)
	r.GET("shifts/:sid", rs.Get)
	r.PUT("shifts/:sid", rs.Update)
	r.DELETE("shifts/:sid", rs.Delete)
	r.GET("availability", rs.Available)
}

func (rs *resource) List(c *gin.Context) {
	uc := rs.shifts()
	f := rs.DserListReq(c, uc.Location())
	if f == nil {
		return
	}
	shifts, err := uc.List(c, authn.Actor(c), *f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

func (rs *resource) Book(c *gin.Context) {
	uc := rs.shifts()
	req := rs.DserBookReq(c, uc.Location())
	if req == nil {
		return
	}
	booked, err := uc.Book(c, authn.Actor(c), *req)
	if err != nil {
		// earlier dates stay booked whatever stopped the batch
		status, body := serdser.ErrBody(err)
		if len(booked) > 0 {
			body["booked"] = booked
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shifts": booked})
}

func (rs *resource) Get(c *gin.Context) {
	id := rs.DserShiftID(c)
	if id == "" {
		return
	}
	s, err := rs.shifts().Get(c, authn.Actor(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) Update(c *gin.Context) {
	id := rs.DserShiftID(c)
	if id == "" {
		return
	}
	uc := rs.shifts()
	req := rs.DserUpdateReq(c, uc.Location())
	if req == nil {
		return
	}
	s, err := uc.Update(c, authn.Actor(c), id, *req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) Delete(c *gin.Context) {
	id := rs.DserShiftID(c)
	if id == "" {
		return
	}
	if err := rs.shifts().Delete(c, authn.Actor(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) Available(c *gin.Context) {
	uc := rs.shifts()
	req := rs.DserAvailableReq(c, uc.Location())
	if req == nil {
		return
	}
	ok, err := uc.Available(
		c, authn.Actor(c), req.Resource, req.ID,
		req.Date, req.Start, req.End, req.ExcludeID,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": ok})
}
