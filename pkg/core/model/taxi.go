// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// Models are annotated with json tags since they are rendered as-is
// by the REST resources, while the database adapters keep their own
// tagged structs and convert them to these models.
package model

import (
	"regexp"
	"strings"
	"time"
)

// Taxi models one vehicle which may be booked for shifts.
// The ID is derived from the LicensePlate using the NormalizePlate
// function and is used as the primary key of the taxis collection,
// so editing a license plate may move a taxi to another ID.
type Taxi struct {
	ID           string    `json:"id"`           // normalized plate
	LicensePlate string    `json:"licensePlate"` // display plate
	Active       bool      `json:"active"`       // bookable or not
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"` // uid of the admin
}

var whitespaces = regexp.MustCompile(`\s+`)

// NormalizePlate computes the taxi identifier of a license plate.
// Surrounding spaces are trimmed, letters are uppercased, and every
// run of inner white space characters is collapsed into one "-".
// For example, "b ab  123" is normalized as "B-AB-123".
// An empty string is returned for a blank plate.
func NormalizePlate(plate string) string {
	p := strings.ToUpper(strings.TrimSpace(plate))
	return whitespaces.ReplaceAllString(p, "-")
}
