// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/taxiweb/pkg/core/usecase/driversuc"
	"github.com/momeni/taxiweb/pkg/core/usecase/shiftsuc"
	"github.com/momeni/taxiweb/pkg/core/usecase/taxisuc"
)

// updateAll atomically updates all use case objects. This method
// minimizes the scope which needs to take a writing lock (after
// instantiating all relevant use case objects).
func (app *UseCase) updateAll(
	shifts *shiftsuc.UseCase,
	taxis *taxisuc.UseCase,
	drivers *driversuc.UseCase,
) {
	app.rwlock.Lock()
	defer app.rwlock.Unlock()
	app.shiftsUseCase = shifts
	app.taxisUseCase = taxis
	app.driversUseCase = drivers
}

// ShiftsUseCase returns the currently effective shifts use case.
func (app *UseCase) ShiftsUseCase() *shiftsuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.shiftsUseCase
}

// TaxisUseCase returns the currently effective taxis use case.
func (app *UseCase) TaxisUseCase() *taxisuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.taxisUseCase
}

// DriversUseCase returns the currently effective drivers use case.
func (app *UseCase) DriversUseCase() *driversuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.driversUseCase
}
