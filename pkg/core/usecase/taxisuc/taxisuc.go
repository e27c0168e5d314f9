// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package taxisuc contains the taxis UseCase which supports creating,
// editing, activating, deleting, and listing taxis.
//
// A taxi is keyed by its normalized license plate. So editing a plate
// in a way which changes its normalized form moves the taxi to a new
// key and all of its shifts have to follow. That rename runs in one
// transaction, but the shifts to be moved are gathered before the
// transaction begins. A shift which is booked for the old taxi in the
// meantime will keep pointing to the deleted taxi.
package taxisuc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/log"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
)

// ActiveCache keeps a copy of the active taxis list. Implementations
// may lose entries at any time. A nil list with a nil error indicates
// a cache miss.
type ActiveCache interface {
	Active(ctx context.Context) ([]model.Taxi, error)
	StoreActive(ctx context.Context, taxis []model.Taxi) error
	Invalidate(ctx context.Context) error
}

// UseCase represents a taxis use case. It holds a store connection
// pool, the taxis and shifts repositories, and an optional cache.
type UseCase struct {
	pool   repo.Pool
	taxis  repo.Taxis
	shifts repo.Shifts

	cache ActiveCache
}

// New instantiates a taxis use case.
func New(
	p repo.Pool, t repo.Taxis, s repo.Shifts, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, taxis: t, shifts: s}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return uc, nil
}

// EditResult describes the outcome of an Edit call.
// ShiftsUpdated counts the shifts whose denormalized license plate
// was updated, either by the cascade of a simple edit or by the
// rename transaction.
type EditResult struct {
	Taxi          *model.Taxi `json:"taxi"`
	OldPlate      string      `json:"oldPlate"`
	NewPlate      string      `json:"newPlate"`
	Renamed       bool        `json:"renamed"`
	ShiftsUpdated int64       `json:"shiftsUpdated"`
}

func admin(a model.Actor) error {
	if err := a.Validate(); err != nil {
		return cerr.Authentication(err)
	}
	if !a.IsAdmin() {
		return cerr.Authorization(model.ErrAdminOnly)
	}
	return nil
}

func normalize(plate string) (string, string, error) {
	plate = strings.TrimSpace(plate)
	id := model.NormalizePlate(plate)
	if id == "" {
		return "", "", cerr.BadRequest(&model.ValidationError{
			Field: "licensePlate", Reason: "license plate is required",
		})
	}
	return id, plate, nil
}

// Create use case creates a taxi with the given license plate.
// A taxi with the same normalized plate causes a *model.CollisionError
// wrapped by cerr.Conflict.
func (uc *UseCase) Create(
	ctx context.Context, a model.Actor, plate string, active bool,
) (*model.Taxi, error) {
	if err := admin(a); err != nil {
		return nil, err
	}
	id, plate, err := normalize(plate)
	if err != nil {
		return nil, err
	}
	t := &model.Taxi{
		ID: id, LicensePlate: plate, Active: active, CreatedBy: a.UID,
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.taxis.Conn(c).Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	log.Info(ctx, "taxi created", log.Actor("actor", a), slog.String("taxi", id))
	return t, nil
}

// Edit use case sets the license plate and active flag of the oldID
// taxi. If the normalized form of newPlate equals oldID, the taxi is
// updated in place and its shifts receive the new display plate as a
// separate best-effort batch. Otherwise, the taxi is renamed.
//
// A rename fails with a *model.CollisionError if the new key is taken
// and with a *model.NotFoundError if the oldID taxi vanished. In both
// cases nothing is changed.
func (uc *UseCase) Edit(
	ctx context.Context, a model.Actor,
	oldID, newPlate string, active bool,
) (*EditResult, error) {
	if err := admin(a); err != nil {
		return nil, err
	}
	newID, newPlate, err := normalize(newPlate)
	if err != nil {
		return nil, err
	}
	var res *EditResult
	if newID == oldID {
		res, err = uc.update(ctx, oldID, newPlate, active)
	} else {
		res, err = uc.rename(ctx, oldID, newID, newPlate, active)
	}
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	log.Info(
		ctx, "taxi edited",
		log.Actor("actor", a),
		slog.String("old", oldID),
		slog.String("new", newID),
		slog.Bool("renamed", res.Renamed),
		slog.Int64("shifts", res.ShiftsUpdated),
	)
	return res, nil
}

func (uc *UseCase) update(
	ctx context.Context, id, plate string, active bool,
) (res *EditResult, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.taxis.Conn(c)
		t, err := q.Get(ctx, id)
		if err != nil {
			return err
		}
		if err = q.Update(ctx, id, plate, active); err != nil {
			return err
		}
		res = &EditResult{OldPlate: t.LicensePlate, NewPlate: plate}
		t.LicensePlate, t.Active = plate, active
		res.Taxi = t
		if res.OldPlate == plate {
			return nil
		}
		n, err := uc.shifts.Conn(c).SetTaxiPlate(ctx, id, plate)
		res.ShiftsUpdated = n
		if err != nil {
			log.Warn(
				ctx, "license plate cascade failed",
				slog.String("taxi", id),
				slog.Int64("updated", n),
				log.Err("err", err),
			)
		}
		return nil
	})
	return res, err
}

func (uc *UseCase) rename(
	ctx context.Context, oldID, newID, plate string, active bool,
) (*EditResult, error) {
	var ids []string
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.taxis.Conn(c)
		taken, err := q.Exists(ctx, newID)
		if err != nil {
			return err
		}
		if taken {
			return cerr.Conflict(&model.CollisionError{
				TaxiID: newID, LicensePlate: plate,
			})
		}
		ids, err = uc.shifts.Conn(c).IDsByTaxi(ctx, oldID)
		return err
	})
	if err != nil {
		return nil, err
	}
	var res *EditResult
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			tq := uc.taxis.Tx(tx)
			old, err := tq.Lock(ctx, oldID)
			if err != nil {
				return err
			}
			t := &model.Taxi{
				ID:           newID,
				LicensePlate: plate,
				Active:       active,
				CreatedAt:    old.CreatedAt,
				CreatedBy:    old.CreatedBy,
			}
			if err = tq.Create(ctx, t); err != nil {
				return err
			}
			if err = uc.shifts.Tx(tx).Repoint(ctx, ids, newID, plate); err != nil {
				return err
			}
			if err = tq.Delete(ctx, oldID); err != nil {
				return err
			}
			res = &EditResult{
				Taxi:          t,
				OldPlate:      old.LicensePlate,
				NewPlate:      plate,
				Renamed:       true,
				ShiftsUpdated: int64(len(ids)),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	log.Warn(
		ctx, "taxi renamed; shifts booked during the rename are not moved",
		slog.String("old", oldID),
		slog.String("new", newID),
		slog.Int("gathered", len(ids)),
	)
	return res, nil
}

// SetActive use case activates or deactivates the id taxi. Inactive
// taxis keep their shifts but may not be booked any more.
func (uc *UseCase) SetActive(
	ctx context.Context, a model.Actor, id string, active bool,
) (t *model.Taxi, err error) {
	if err = admin(a); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.taxis.Conn(c)
		t, err = q.Get(ctx, id)
		if err != nil {
			return err
		}
		if err = q.Update(ctx, id, t.LicensePlate, active); err != nil {
			return err
		}
		t.Active = active
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	log.Info(
		ctx, "taxi activation changed",
		log.Actor("actor", a),
		slog.String("taxi", id),
		slog.Bool("active", active),
	)
	return t, nil
}

// Delete use case deletes the id taxi. A taxi may not be deleted while
// some shifts refer to it; a *model.TaxiInUseError wrapped by
// cerr.Conflict is returned in that case. The check and the deletion
// run in one transaction which locks the taxi, so a concurrent booking
// either precedes the check or fails to find the taxi.
func (uc *UseCase) Delete(ctx context.Context, a model.Actor, id string) error {
	if err := admin(a); err != nil {
		return err
	}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			tq := uc.taxis.Tx(tx)
			if _, err := tq.Lock(ctx, id); err != nil {
				return err
			}
			ids, err := uc.shifts.Tx(tx).IDsByTaxi(ctx, id)
			if err != nil {
				return err
			}
			if len(ids) > 0 {
				return cerr.Conflict(&model.TaxiInUseError{
					TaxiID: id, Shifts: int64(len(ids)),
				})
			}
			return tq.Delete(ctx, id)
		})
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx)
	log.Info(ctx, "taxi deleted", log.Actor("actor", a), slog.String("taxi", id))
	return nil
}

// Get use case returns the id taxi. Drivers may only see active taxis.
func (uc *UseCase) Get(
	ctx context.Context, a model.Actor, id string,
) (t *model.Taxi, err error) {
	if err = a.Validate(); err != nil {
		return nil, cerr.Authentication(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		t, err = uc.taxis.Conn(c).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !t.Active && !a.IsAdmin() {
		return nil, cerr.NotFound(&model.NotFoundError{
			Collection: "taxis", ID: id,
		})
	}
	return t, nil
}

// List use case returns all taxis for admins and the active taxis for
// drivers, sorted by their license plates. The active taxis list is
// served from the cache if possible.
func (uc *UseCase) List(
	ctx context.Context, a model.Actor,
) ([]model.Taxi, error) {
	if err := a.Validate(); err != nil {
		return nil, cerr.Authentication(err)
	}
	activeOnly := !a.IsAdmin()
	if activeOnly {
		if taxis := uc.cached(ctx); taxis != nil {
			return taxis, nil
		}
	}
	var taxis []model.Taxi
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		taxis, err = uc.taxis.Conn(c).List(ctx, activeOnly)
		return err
	})
	if err != nil {
		return nil, err
	}
	if activeOnly && uc.cache != nil {
		if err = uc.cache.StoreActive(ctx, taxis); err != nil {
			log.Warn(ctx, "caching active taxis failed", log.Err("err", err))
		}
	}
	return taxis, nil
}

func (uc *UseCase) cached(ctx context.Context) []model.Taxi {
	if uc.cache == nil {
		return nil
	}
	taxis, err := uc.cache.Active(ctx)
	if err != nil {
		log.Warn(ctx, "reading active taxis cache failed", log.Err("err", err))
		return nil
	}
	return taxis
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		log.Warn(ctx, "invalidating active taxis cache failed", log.Err("err", err))
	}
}
