// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package driversrs realizes the drivers resource, allowing admins
// to manage the driver profiles, and any authenticated user to fetch
// their own profile.
package driversrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/authn"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/usecase/driversuc"
)

type resource struct {
	drivers func() *driversuc.UseCase
}

// Register instantiates a resource adapting the drivers use case
// with the relevant REST APIs including:
//  1. GET request to /me in order to fetch the caller profile,
//  2. GET request to /drivers in order to list profiles of a role,
//  3. POST request to /drivers in order to create a driver,
//  4. PUT request to /drivers/:uid in order to edit a profile,
//  5. DELETE request to /drivers/:uid in order to delete a driver
//     and all of their shifts.
func Register(r *gin.RouterGroup, drivers func() *driversuc.UseCase) {
	rs := &resource{drivers: drivers}
	r.GET("me", rs.Me)
	r.GET("drivers", rs.List)
	r.POST("drivers", rs.Create)
	r.PUT("drivers/:uid", rs.Edit)
	r.DELETE("drivers/:uid", rs.Delete)
}

func (rs *resource) Me(c *gin.Context) {
	c.JSON(http.StatusOK, authn.Profile(c))
}

func (rs *resource) List(c *gin.Context) {
	req := &listReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return
	}
	role := model.RoleDriver
	if req.Role != "" {
		role, _ = model.ParseRole(req.Role)
	}
	users, err := rs.drivers().List(c, authn.Actor(c), role)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (rs *resource) Create(c *gin.Context) {
	np := rs.DserCreateReq(c)
	if np == nil {
		return
	}
	u, err := rs.drivers().CreateDriver(c, authn.Actor(c), *np)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (rs *resource) Edit(c *gin.Context) {
	uid := rs.DserUID(c)
	if uid == "" {
		return
	}
	req := rs.DserEditReq(c)
	if req == nil {
		return
	}
	res, err := rs.drivers().Edit(
		c, authn.Actor(c), uid, req.FirstName, req.LastName, req.Employment,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (rs *resource) Delete(c *gin.Context) {
	uid := rs.DserUID(c)
	if uid == "" {
		return
	}
	n, err := rs.drivers().Delete(c, authn.Actor(c), uid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shiftsDeleted": n})
}
