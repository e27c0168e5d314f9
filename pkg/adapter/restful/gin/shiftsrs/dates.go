// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package shiftsrs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	// MaxRecurringDates is the maximum number of dates which one
	// recurring booking request may expand into.
	MaxRecurringDates = 62

	// RecurrenceWindowDays is the number of days, starting from the
	// from date, which are scanned for the rule occurrences.
	RecurrenceWindowDays = 62
)

// ErrNoOccurrence indicates a recurrence rule which yields no date
// in the recurrence window.
var ErrNoOccurrence = errors.New("rrule has no occurrence in the window")

// ErrSubDaily indicates a recurrence rule which repeats more often
// than once per day, while each booked date takes one shift.
var ErrSubDaily = errors.New("rrule frequency must be DAILY or coarser")

// ExpandDates expands the iCalendar RRULE value rule, for example
// "FREQ=WEEKLY;BYDAY=MO,WE", into the calendar dates which it yields
// starting at the from date. Dates are returned as distinct midnights
// in the from location, in ascending order, and only dates within the
// recurrence window are returned. Rules yielding more than
// MaxRecurringDates dates are rejected.
func ExpandDates(rule string, from time.Time) ([]time.Time, error) {
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	opt, err := rrule.StrToROptionInLocation(rule, from.Location())
	if err != nil {
		return nil, fmt.Errorf("parsing rrule: %w", err)
	}
	if opt.Freq > rrule.DAILY {
		return nil, ErrSubDaily
	}
	opt.Dtstart = from
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("creating rrule: %w", err)
	}
	last := from.AddDate(0, 0, RecurrenceWindowDays)
	var dates []time.Time
	next := r.Iterator()
	for o, ok := next(); ok && o.Before(last); o, ok = next() {
		y, m, d := o.In(from.Location()).Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, from.Location())
		if n := len(dates); n > 0 && !dates[n-1].Before(date) {
			continue
		}
		if len(dates) == MaxRecurringDates {
			return nil, fmt.Errorf(
				"rrule yields more than %d dates", MaxRecurringDates,
			)
		}
		dates = append(dates, date)
	}
	if len(dates) == 0 {
		return nil, ErrNoOccurrence
	}
	return dates, nil
}
