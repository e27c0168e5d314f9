// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
)

// Taxis is the in-memory implementation of the repo.Taxis interface.
type Taxis struct{}

// Conn returns a taxis queryer which runs on the c connection.
// The c must be a *memory.Conn.
func (Taxis) Conn(c repo.Conn) repo.TaxisConnQueryer {
	return taxisQueryer{v: c.(*Conn)}
}

// Tx returns a taxis queryer which runs on the tx transaction.
// The tx must be a *memory.Tx.
func (Taxis) Tx(tx repo.Tx) repo.TaxisTxQueryer {
	return taxisQueryer{v: tx.(*Tx)}
}

type taxisQueryer struct {
	v view
}

func taxiNotFound(id string) error {
	return cerr.NotFound(&model.NotFoundError{Collection: "taxis", ID: id})
}

func (q taxisQueryer) Get(ctx context.Context, id string) (t *model.Taxi, err error) {
	err = q.v.do(func(s *snapshot) error {
		tt, ok := s.taxis[id]
		if !ok {
			return taxiNotFound(id)
		}
		t = &tt
		return nil
	})
	return t, err
}

// Lock is like Get since transactions are serialized.
func (q taxisQueryer) Lock(ctx context.Context, id string) (*model.Taxi, error) {
	return q.Get(ctx, id)
}

func (q taxisQueryer) Exists(ctx context.Context, id string) (ok bool, err error) {
	err = q.v.do(func(s *snapshot) error {
		_, ok = s.taxis[id]
		return nil
	})
	return ok, err
}

func (q taxisQueryer) Create(ctx context.Context, t *model.Taxi) error {
	return q.v.do(func(s *snapshot) error {
		if _, ok := s.taxis[t.ID]; ok {
			return cerr.Conflict(&model.CollisionError{
				TaxiID: t.ID, LicensePlate: t.LicensePlate,
			})
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		s.taxis[t.ID] = *t
		return nil
	})
}

func (q taxisQueryer) Update(
	ctx context.Context, id, plate string, active bool,
) error {
	return q.v.do(func(s *snapshot) error {
		t, ok := s.taxis[id]
		if !ok {
			return taxiNotFound(id)
		}
		t.LicensePlate, t.Active = plate, active
		s.taxis[id] = t
		return nil
	})
}

func (q taxisQueryer) Delete(ctx context.Context, id string) error {
	return q.v.do(func(s *snapshot) error {
		if _, ok := s.taxis[id]; !ok {
			return taxiNotFound(id)
		}
		delete(s.taxis, id)
		return nil
	})
}

func (q taxisQueryer) List(
	ctx context.Context, activeOnly bool,
) (taxis []model.Taxi, err error) {
	err = q.v.do(func(s *snapshot) error {
		taxis = make([]model.Taxi, 0, len(s.taxis))
		for _, t := range s.taxis {
			if activeOnly && !t.Active {
				continue
			}
			taxis = append(taxis, t)
		}
		return nil
	})
	sort.Slice(taxis, func(i, j int) bool {
		return taxis[i].LicensePlate < taxis[j].LicensePlate
	})
	return taxis, err
}
