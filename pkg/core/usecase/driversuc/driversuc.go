// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package driversuc contains the user profiles UseCase. Admins create,
// edit, list, and delete driver profiles, while admin profiles are
// only created out-of-band. Driver names are copied into their shifts,
// so name edits are propagated to the shifts and deleting a driver
// deletes their shifts too.
package driversuc

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/log"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
)

// UseCase represents a user profiles use case.
type UseCase struct {
	pool   repo.Pool
	users  repo.Users
	shifts repo.Shifts
}

// New instantiates a user profiles use case.
func New(p repo.Pool, u repo.Users, s repo.Shifts) *UseCase {
	return &UseCase{pool: p, users: u, shifts: s}
}

// NewProfile holds the fields of a profile to be created.
type NewProfile struct {
	UID        string
	Email      string
	FirstName  string
	LastName   string
	Employment model.EmploymentCategory
}

func (np NewProfile) validate() error {
	for _, f := range []struct{ name, value string }{
		{"uid", np.UID},
		{"email", np.Email},
		{"firstName", np.FirstName},
		{"lastName", np.LastName},
	} {
		if strings.TrimSpace(f.value) == "" {
			return cerr.BadRequest(&model.ValidationError{
				Field: f.name, Reason: "value is required",
			})
		}
	}
	return nil
}

// Profile use case loads the uid profile for the authentication layer.
// A missing profile or a profile without a valid role is reported as
// an authentication error, so its session has to be dropped.
func (uc *UseCase) Profile(
	ctx context.Context, uid string,
) (u *model.UserProfile, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = uc.users.Conn(c).Get(ctx, uid)
		return err
	})
	if err != nil {
		if cerr.StatusOf(err) == http.StatusNotFound {
			return nil, cerr.Authentication(err)
		}
		return nil, err
	}
	if err = u.Role.Validate(); err != nil {
		log.Warn(
			ctx, "profile has an invalid role",
			slog.String("uid", uid), log.Err("err", err),
		)
		return nil, cerr.Authentication(model.ErrInvalidRole)
	}
	return u, nil
}

// CreateDriver use case creates a driver profile. Only admins may
// create drivers.
func (uc *UseCase) CreateDriver(
	ctx context.Context, a model.Actor, np NewProfile,
) (*model.UserProfile, error) {
	if err := admin(a); err != nil {
		return nil, err
	}
	u, err := uc.create(ctx, np, model.RoleDriver)
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "driver created",
		log.Actor("actor", a), slog.String("uid", u.UID),
	)
	return u, nil
}

// CreateAdmin use case creates an admin profile. It takes no actor
// and is meant to be called by the command line tools.
func (uc *UseCase) CreateAdmin(
	ctx context.Context, np NewProfile,
) (*model.UserProfile, error) {
	np.Employment = model.EmploymentUnset
	u, err := uc.create(ctx, np, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "admin created", slog.String("uid", u.UID))
	return u, nil
}

func (uc *UseCase) create(
	ctx context.Context, np NewProfile, role model.Role,
) (*model.UserProfile, error) {
	if err := np.validate(); err != nil {
		return nil, err
	}
	u := &model.UserProfile{
		UID:        np.UID,
		Email:      strings.TrimSpace(np.Email),
		FirstName:  strings.TrimSpace(np.FirstName),
		LastName:   strings.TrimSpace(np.LastName),
		Role:       role,
		Employment: np.Employment,
	}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.users.Conn(c).Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EditResult describes the outcome of an Edit call.
type EditResult struct {
	Profile       *model.UserProfile `json:"profile"`
	ShiftsUpdated int64              `json:"shiftsUpdated"`
}

// Edit use case updates the names and employment category of the uid
// profile. If the names changed, they are copied into the shifts of
// the uid driver afterwards. That copy is a best-effort batch and its
// failure is logged without failing the edit.
func (uc *UseCase) Edit(
	ctx context.Context, a model.Actor,
	uid, firstName, lastName string,
	employment model.EmploymentCategory,
) (*EditResult, error) {
	if err := admin(a); err != nil {
		return nil, err
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, cerr.BadRequest(&model.ValidationError{
			Field: "name", Reason: "first and last names are required",
		})
	}
	res := &EditResult{}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.users.Conn(c)
		u, err := q.Get(ctx, uid)
		if err != nil {
			return err
		}
		if u.Role == model.RoleAdmin {
			employment = model.EmploymentUnset
		}
		err = q.Update(ctx, uid, firstName, lastName, employment)
		if err != nil {
			return err
		}
		renamed := u.FirstName != firstName || u.LastName != lastName
		u.FirstName, u.LastName, u.Employment = firstName, lastName, employment
		res.Profile = u
		if !renamed {
			return nil
		}
		n, err := uc.shifts.Conn(c).SetDriverName(ctx, uid, firstName, lastName)
		res.ShiftsUpdated = n
		if err != nil {
			log.Warn(
				ctx, "driver name cascade failed",
				slog.String("uid", uid),
				slog.Int64("updated", n),
				log.Err("err", err),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "profile edited",
		log.Actor("actor", a),
		slog.String("uid", uid),
		slog.Int64("shifts", res.ShiftsUpdated),
	)
	return res, nil
}

// Delete use case deletes the uid driver and all of their shifts in
// one transaction. Admin profiles, including the actor itself, may
// not be deleted.
func (uc *UseCase) Delete(
	ctx context.Context, a model.Actor, uid string,
) (int64, error) {
	if err := admin(a); err != nil {
		return 0, err
	}
	var n int64
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			uq := uc.users.Tx(tx)
			u, err := uq.Lock(ctx, uid)
			if err != nil {
				return err
			}
			if u.Role != model.RoleDriver {
				return cerr.BadRequest(&model.ValidationError{
					Field:  "uid",
					Reason: fmt.Sprintf("user %s is not a driver", uid),
				})
			}
			n, err = uc.shifts.Tx(tx).DeleteByDriver(ctx, uid)
			if err != nil {
				return fmt.Errorf("deleting shifts of %q: %w", uid, err)
			}
			return uq.Delete(ctx, uid)
		})
	})
	if err != nil {
		return 0, err
	}
	log.Info(
		ctx, "profile deleted",
		log.Actor("actor", a),
		slog.String("uid", uid),
		slog.Int64("shifts", n),
	)
	return n, nil
}

// List use case returns the profiles having the role role, sorted by
// their last and first names. Only admins may list profiles.
func (uc *UseCase) List(
	ctx context.Context, a model.Actor, role model.Role,
) (users []model.UserProfile, err error) {
	if err = admin(a); err != nil {
		return nil, err
	}
	if err = role.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		users, err = uc.users.Conn(c).List(ctx, role)
		return err
	})
	return users, err
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
