// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// MaxShiftDuration is the longest acceptable shift.
const MaxShiftDuration = 10 * time.Hour

// Clock is a 24-hour wall clock time, kept as minutes after midnight.
type Clock int

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ParseClock parses a "HH:MM" string such as "09:00" or "23:59".
// Other formats (including "24:00" and single digit hours) cause a
// ValidationError to be returned with the field argument as its Field.
func ParseClock(field, s string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("invalid time %q, expected HH:MM", s),
		}
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return Clock(h*60 + mm), nil
}

// String formats the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Interval is a half-open [Start, End) time interval.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval computes the concrete instants of a shift which starts
// at the start clock time of the given calendar date in loc location.
// The end instant is computed on the same calendar date, unless the
// end clock time is not after the start clock time. In that case, the
// shift runs past midnight and its end is moved to the next day.
// Only the year, month, and day of date are used.
func NewInterval(date time.Time, start, end Clock, loc *time.Location) Interval {
	y, m, d := date.Date()
	s := time.Date(y, m, d, int(start)/60, int(start)%60, 0, 0, loc)
	e := time.Date(y, m, d, int(end)/60, int(end)%60, 0, 0, loc)
	if end <= start {
		e = e.AddDate(0, 0, 1)
	}
	return Interval{Start: s, End: e}
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether iv and other share any instant.
// Touching intervals, where one ends exactly when the other starts,
// do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// Validate checks that the interval is not empty and is not longer
// than maxDuration.
func (iv Interval) Validate(maxDuration time.Duration) error {
	d := iv.Duration()
	switch {
	case d <= 0:
		return &ValidationError{
			Field:  "endTime",
			Reason: "end time must be after start time",
		}
	case d > maxDuration:
		return &ValidationError{
			Field: "endTime",
			Reason: fmt.Sprintf(
				"shift duration %s exceeds the maximum of %s",
				d, maxDuration,
			),
		}
	}
	return nil
}
