// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// Range describes the acceptable values of the Key setting. Nil Min
// or Max bounds are not checked.
type Range[T cmp.Ordered] struct {
	Key      string
	Min, Max *T
}

// OutOfRangeError indicates that the Key setting was configured with
// a Value outside of its Range.
type OutOfRangeError[T cmp.Ordered] struct {
	Range[T]
	Value T
}

func (e *OutOfRangeError[T]) Error() string {
	if e.Min != nil && e.Value < *e.Min {
		return fmt.Sprintf("%s: %v is below the minimum %v", e.Key, e.Value, *e.Min)
	}
	return fmt.Sprintf("%s: %v is above the maximum %v", e.Key, e.Value, *e.Max)
}

// Clamp verifies that *value is either nil or falls in r. An out of
// range value is replaced by the violated bound and reported with an
// *OutOfRangeError, so callers may log it and go on with the clamped
// value. Inverted bounds are a programming error and cause a panic.
func (r Range[T]) Clamp(value **T) error {
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		panic(fmt.Sprintf("%s: min %v is above max %v", r.Key, *r.Min, *r.Max))
	}
	if *value == nil {
		return nil
	}
	v := **value
	switch {
	case r.Min != nil && v < *r.Min:
		**value = *r.Min
	case r.Max != nil && v > *r.Max:
		**value = *r.Max
	default:
		return nil
	}
	return &OutOfRangeError[T]{Range: r, Value: v}
}
