// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// Role specifies the role enum of a user profile and accepts two
// admin and driver values. Although this enum is numeric, it is
// (de)serialized as a string in the adapter layer.
// Role is parsed once, when a profile is loaded for an authenticated
// request, and the typed value is passed to the use cases afterwards.
type Role int

// Valid values for the Role enum.
const (
	RoleInvalid Role = iota // zero value is invalid

	RoleAdmin  // manages taxis, drivers, and all shifts
	RoleDriver // books and deletes own shifts
)

// ErrUnknownRole indicates that a given string may not be parsed as a
// valid/known role. The invalid string itself is not included because
// the caller of ParseRole already knows about it.
var ErrUnknownRole = errors.New("unknown role")

// RoleError indicates an invalid numeric role value.
type RoleError int

// Error implements the error interface, returning a string
// representation of the RoleError.
func (e RoleError) Error() string {
	return fmt.Sprintf("invalid role: %d", e)
}

// Validate returns nil if Role value is valid. For invalid values,
// an instance of the RoleError will be returned.
func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleDriver:
		return nil
	default:
		return RoleError(r)
	}
}

// String converts the Role enum to a string. Invalid roles are
// converted to "invalid" instead of panicking because profiles with a
// broken role field are loaded from the store and have to be logged
// before being rejected.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleDriver:
		return "driver"
	default:
		return "invalid"
	}
}

// ParseRole parses the given string and returns a Role.
// For invalid strings, RoleInvalid and ErrUnknownRole are returned.
func ParseRole(r string) (Role, error) {
	switch r {
	case "admin":
		return RoleAdmin, nil
	case "driver":
		return RoleDriver, nil
	default:
		return RoleInvalid, ErrUnknownRole
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (r Role) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (r *Role) UnmarshalText(data []byte) error {
	rr, err := ParseRole(string(data))
	if err != nil {
		return err
	}
	*r = rr
	return nil
}

// EmploymentCategory specifies how a driver is employed.
// The zero EmploymentUnset value is used for admins.
type EmploymentCategory int

// Valid values for the EmploymentCategory enum.
const (
	EmploymentUnset EmploymentCategory = iota

	EmploymentFullTime  // full-time employee
	EmploymentTemporary // temporary help
	EmploymentOther     // any other arrangement
)

// ErrUnknownEmployment indicates that a given string may not be
// parsed as a known employment category.
var ErrUnknownEmployment = errors.New("unknown employment category")

// String converts the EmploymentCategory to its serialized form.
// The unset value is converted to an empty string.
func (e EmploymentCategory) String() string {
	switch e {
	case EmploymentFullTime:
		return "full-time"
	case EmploymentTemporary:
		return "temporary"
	case EmploymentOther:
		return "other"
	default:
		return ""
	}
}

// ParseEmployment parses the given string as an EmploymentCategory.
// An empty string is parsed as EmploymentUnset.
func ParseEmployment(e string) (EmploymentCategory, error) {
	switch e {
	case "":
		return EmploymentUnset, nil
	case "full-time":
		return EmploymentFullTime, nil
	case "temporary":
		return EmploymentTemporary, nil
	case "other":
		return EmploymentOther, nil
	default:
		return EmploymentUnset, ErrUnknownEmployment
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (e EmploymentCategory) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (e *EmploymentCategory) UnmarshalText(data []byte) error {
	ee, err := ParseEmployment(string(data))
	if err != nil {
		return err
	}
	*e = ee
	return nil
}

// Resource specifies one of the two dimensions which shifts may not
// overlap along, namely taxis and drivers.
type Resource int

// Valid values for the Resource enum.
const (
	ResourceInvalid Resource = iota

	ResourceTaxi
	ResourceDriver
)

// ErrUnknownResource indicates that a string is not a resource kind.
var ErrUnknownResource = errors.New("unknown resource")

// String converts the Resource enum to a string.
func (r Resource) String() string {
	switch r {
	case ResourceTaxi:
		return "taxi"
	case ResourceDriver:
		return "driver"
	default:
		return "invalid"
	}
}

// ParseResource parses "taxi" or "driver" as a Resource.
func ParseResource(r string) (Resource, error) {
	switch r {
	case "taxi":
		return ResourceTaxi, nil
	case "driver":
		return ResourceDriver, nil
	default:
		return ResourceInvalid, ErrUnknownResource
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (r Resource) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
