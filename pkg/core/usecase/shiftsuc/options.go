// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package shiftsuc

import (
	"errors"
	"fmt"
	"time"

	"github.com/momeni/taxiweb/pkg/core/model"
)

// Option is a functional option for the shifts use case.
type Option func(uc *UseCase) error

// WithMaxDuration option configures a shifts UseCase instance in order
// to reject shifts which are longer than d. The d duration must be
// positive and may not exceed the model.MaxShiftDuration.
func WithMaxDuration(d time.Duration) Option {
	return func(uc *UseCase) error {
		if d <= 0 || d > model.MaxShiftDuration {
			return fmt.Errorf(
				"max duration (%s) is not in (0, %s]",
				d, model.MaxShiftDuration,
			)
		}
		if uc.maxDuration != 0 {
			return errors.New("max duration is already configured")
		}
		uc.maxDuration = d
		return nil
	}
}

// WithLocation option configures the time zone which calendar dates
// and clock times of the booking requests are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCase) error {
		if loc == nil {
			return errors.New("location is nil")
		}
		if uc.loc != nil {
			return errors.New("location is already configured")
		}
		uc.loc = loc
		return nil
	}
}
