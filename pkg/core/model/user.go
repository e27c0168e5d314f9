// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "time"

// UserProfile models an authenticated actor of the system, either an
// admin or a driver. The UID matches the user id which is assigned by
// the authentication provider.
// Employment is only meaningful for drivers and is left as the zero
// EmploymentUnset value for admins.
type UserProfile struct {
	UID        string             `json:"uid"`
	Email      string             `json:"email"`
	FirstName  string             `json:"firstName"`
	LastName   string             `json:"lastName"`
	Role       Role               `json:"role"`
	Employment EmploymentCategory `json:"employment,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// FullName returns the first and last names separated by a space.
func (u *UserProfile) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Actor returns the capability of this profile as an Actor.
// Caller should validate the Role beforehand.
func (u *UserProfile) Actor() Actor {
	return Actor{UID: u.UID, Role: u.Role}
}
