// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which creates the
// shifts, taxis, and drivers use cases based on the effective
// configuration and provides them to the resources packages.
// The use case objects may be rebuilt by a Reload (e.g., after the
// configuration file is edited) and are replaced atomically, so the
// resources packages should ask for them right before using them.
package appuc

import (
	"context"
	"fmt"
	"sync"

	"github.com/momeni/taxiweb/pkg/core/log"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"github.com/momeni/taxiweb/pkg/core/usecase/driversuc"
	"github.com/momeni/taxiweb/pkg/core/usecase/shiftsuc"
	"github.com/momeni/taxiweb/pkg/core/usecase/taxisuc"
)

// Repos holds all repository instances which are required by the
// supported use cases.
type Repos struct {
	Taxis  repo.Taxis
	Shifts repo.Shifts
	Users  repo.Users
}

// UseCase represents an application use case. It holds a store
// connection pool and all repository instances, so it can pass them
// to a use case Builder (which is realized by the effective Config
// instance) during a Reload.
type UseCase struct {
	pool  repo.Pool
	repos Repos

	// mutex serializes the Reload calls, so an older Builder may not
	// publish its use cases after a newer one.
	mutex sync.Mutex

	// rwlock protects the published use case objects.
	rwlock sync.RWMutex

	shiftsUseCase  *shiftsuc.UseCase
	taxisUseCase   *taxisuc.UseCase
	driversUseCase *driversuc.UseCase
}

// New instantiates an application use case object and creates all
// other use case objects using the b Builder.
func New(ctx context.Context, b Builder, p repo.Pool, r Repos) (*UseCase, error) {
	uc := &UseCase{pool: p, repos: r}
	if err := uc.Reload(ctx, b); err != nil {
		return nil, err
	}
	return uc, nil
}

// Reload creates a fresh set of use case objects using b and publishes
// them atomically. On errors, the previous use cases remain in effect.
func (app *UseCase) Reload(ctx context.Context, b Builder) error {
	app.mutex.Lock()
	defer app.mutex.Unlock()
	shifts, err := b.NewShiftsUseCase(app.pool, app.repos)
	if err != nil {
		return fmt.Errorf("creating shifts use case: %w", err)
	}
	taxis, err := b.NewTaxisUseCase(app.pool, app.repos)
	if err != nil {
		return fmt.Errorf("creating taxis use case: %w", err)
	}
	drivers := driversuc.New(app.pool, app.repos.Users, app.repos.Shifts)
	app.updateAll(shifts, taxis, drivers)
	log.Info(ctx, "use cases are (re)loaded")
	return nil
}
