// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// registration of all resource packages on a gin engine.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/authn"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/driversrs"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/shiftsrs"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/taxisrs"
	"github.com/momeni/taxiweb/pkg/core/usecase/appuc"
)

// Prefix is the path prefix of all REST APIs.
const Prefix = "/api/taxiweb/v1"

// Register instantiates a series of "resource" structs, from packages
// which are named like taxisrs, in order to adapt the use cases of the
// app application use case with the REST APIs. These resources are
// registered as request handlers using the e gin-gonic engine instance
// behind an authentication middleware which verifies the bearer tokens
// using the secret key.
// Resources ask app for the use cases on every request, so use cases
// which are replaced by an app.Reload take effect immediately.
func Register(e *gin.Engine, app *appuc.UseCase, secret []byte) {
	r := e.Group(Prefix)
	r.Use(authn.Middleware(secret, app.DriversUseCase))
	taxisrs.Register(r, app.TaxisUseCase)
	shiftsrs.Register(r, app.ShiftsUseCase)
	driversrs.Register(r, app.DriversUseCase)
}
