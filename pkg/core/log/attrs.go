// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"log/slog"

	"github.com/momeni/taxiweb/pkg/core/model"
)

// Valuer returns an Attr for the given slog.LogValuer value.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an Attr for the given error value.
// The error value is resolved as a string by its Error() method.
// If error value is nil, the constant "no-error" value will be used.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// Actor returns a group Attr holding the uid and role of an actor.
func Actor(key string, a model.Actor) slog.Attr {
	return slog.Group(
		key, slog.String("uid", a.UID), slog.String("role", a.Role.String()),
	)
}

// Interval returns a group Attr holding the start and end instants.
func Interval(key string, iv model.Interval) slog.Attr {
	return slog.Group(
		key, slog.Time("start", iv.Start), slog.Time("end", iv.End),
	)
}
