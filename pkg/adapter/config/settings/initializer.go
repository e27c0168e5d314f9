// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings contains the helper types and functions which are
// shared by the configuration settings structs, such as a YAML
// friendly Duration type and the range verification of optional
// settings.
package settings

// Nil2Zero allocates a T zero value and makes (*t) to point to it
// if (*t) was nil. Otherwise, it performs no action.
func Nil2Zero[T any](t **T) {
	if (*t) != nil {
		return
	}
	var zero T
	(*t) = &zero
}

// OverwriteNil overwrites the (*dst) pointer, which should be nil,
// in order to point to a newly allocated T instance and initializes it
// with the val default value.
// If the (*dst) pointer was not nil, this function performs no action.
func OverwriteNil[T any](dst **T, val T) {
	if (*dst) != nil {
		return
	}
	(*dst) = &val
}
