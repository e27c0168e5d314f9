// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package taxisrs realizes the taxis resource, allowing the taxis
// manipulation REST APIs to be accepted and delegated to the
// taxis use cases respectively.
package taxisrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/authn"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/taxiweb/pkg/core/usecase/taxisuc"
)

type resource struct {
	taxis func() *taxisuc.UseCase
}

// Register instantiates a resource adapting the taxis use case
// (as returned by the taxis getter, so reloads take effect) with
// the relevant REST APIs including:
//  1. GET request to /taxis in order to list taxis,
//  2. POST request to /taxis in order to create a taxi,
//  3. GET request to /taxis/:tid in order to fetch one taxi,
//  4. PUT request to /taxis/:tid in order to edit or rename a taxi,
//  5. PATCH request to /taxis/:tid in order to (de)activate a taxi,
//  6. DELETE request to /taxis/:tid in order to delete an unused taxi.
func Register(r *gin.RouterGroup, taxis func() *taxisuc.UseCase) {
	rs := &resource{taxis: taxis}
	r.GET("taxis", rs.List)
	r.POST("taxis", rs.Create)
	r.GET("taxis/:tid", rs.Get)
	r.PUT("taxis/:tid", rs.Edit)
	r.PATCH("taxis/:tid", rs.SetActive)
	r.DELETE("taxis/:tid", rs.Delete)
}

func (rs *resource) List(c *gin.Context) {
	taxis, err := rs.taxis().List(c, authn.Actor(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"taxis": taxis})
}

func (rs *resource) Create(c *gin.Context) {
	req := &taxiReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	t, err := rs.taxis().Create(c, authn.Actor(c), req.LicensePlate, req.active())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (rs *resource) Get(c *gin.Context) {
	id := rs.DserTaxiID(c)
	if id == "" {
		return
	}
	t, err := rs.taxis().Get(c, authn.Actor(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (rs *resource) Edit(c *gin.Context) {
	id := rs.DserTaxiID(c)
	if id == "" {
		return
	}
	req := &editReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	res, err := rs.taxis().Edit(
		c, authn.Actor(c), id, req.LicensePlate, *req.Active,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (rs *resource) SetActive(c *gin.Context) {
	id := rs.DserTaxiID(c)
	if id == "" {
		return
	}
	req := &activeReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	t, err := rs.taxis().SetActive(c, authn.Actor(c), id, *req.Active)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (rs *resource) Delete(c *gin.Context) {
	id := rs.DserTaxiID(c)
	if id == "" {
		return
	}
	if err := rs.taxis().Delete(c, authn.Actor(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
