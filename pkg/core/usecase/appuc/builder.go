// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/taxiweb/pkg/core/repo"
	"github.com/momeni/taxiweb/pkg/core/usecase/shiftsuc"
	"github.com/momeni/taxiweb/pkg/core/usecase/taxisuc"
)

// Builder interface represents the expectations from the application
// use case builders. All use cases which take settings from the
// configuration have one NewX method here which takes the store
// connection pool and the repositories. The configuration struct
// implements this interface, so a reloaded configuration file yields
// a new Builder instance which may be passed to the Reload method.
type Builder interface {
	// NewShiftsUseCase creates a new shiftsuc UseCase object having
	// the configured maximum shift duration and time zone.
	NewShiftsUseCase(p repo.Pool, r Repos) (*shiftsuc.UseCase, error)

	// NewTaxisUseCase creates a new taxisuc UseCase object, possibly
	// with an active taxis cache.
	NewTaxisUseCase(p repo.Pool, r Repos) (*taxisuc.UseCase, error)
}
