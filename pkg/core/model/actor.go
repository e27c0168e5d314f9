// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// Actor is the capability of an authenticated caller. It is created
// at the boundary (after the caller profile is loaded and its role is
// parsed) and passed to the use cases which check the Role value
// instead of comparing loosely typed strings.
type Actor struct {
	UID  string
	Role Role
}

// These errors are returned (wrapped by cerr.Authorization) when an
// actor may not perform an operation.
var (
	ErrAdminOnly   = errors.New("admin role is required")
	ErrNotYourOwn  = errors.New("drivers may only manage their own shifts")
	ErrInvalidRole = errors.New("profile has no valid role")
)

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsDriver reports whether the actor has the driver role.
func (a Actor) IsDriver() bool {
	return a.Role == RoleDriver
}

// Validate returns ErrInvalidRole if the actor role is not valid or
// the actor has no uid.
func (a Actor) Validate() error {
	if a.UID == "" || a.Role.Validate() != nil {
		return ErrInvalidRole
	}
	return nil
}
