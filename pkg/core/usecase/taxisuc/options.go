// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package taxisuc

import "errors"

// Option is a functional option for the taxis use case.
type Option func(uc *UseCase) error

// WithActiveCache option configures a taxis UseCase instance in order
// to keep the active taxis list in the c cache. Every taxi write
// invalidates the cached list.
func WithActiveCache(c ActiveCache) Option {
	return func(uc *UseCase) error {
		if c == nil {
			return errors.New("active cache is nil")
		}
		if uc.cache != nil {
			return errors.New("active cache is already configured")
		}
		uc.cache = c
		return nil
	}
}
