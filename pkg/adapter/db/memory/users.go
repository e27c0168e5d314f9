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

// Users is the in-memory implementation of the repo.Users interface.
type Users struct{}

// Conn returns a users queryer which runs on the c connection.
func (Users) Conn(c repo.Conn) repo.UsersConnQueryer {
	return usersQueryer{v: c.(*Conn)}
}

// Tx returns a users queryer which runs on the tx transaction.
func (Users) Tx(tx repo.Tx) repo.UsersTxQueryer {
	return usersQueryer{v: tx.(*Tx)}
}

type usersQueryer struct {
	v view
}

func userNotFound(uid string) error {
	return cerr.NotFound(&model.NotFoundError{Collection: "users", ID: uid})
}

func (q usersQueryer) Get(
	ctx context.Context, uid string,
) (u *model.UserProfile, err error) {
	err = q.v.do(func(s *snapshot) error {
		uu, ok := s.users[uid]
		if !ok {
			return userNotFound(uid)
		}
		u = &uu
		return nil
	})
	return u, err
}

func (q usersQueryer) Lock(
	ctx context.Context, uid string,
) (*model.UserProfile, error) {
	return q.Get(ctx, uid)
}

func (q usersQueryer) Create(ctx context.Context, u *model.UserProfile) error {
	return q.v.do(func(s *snapshot) error {
		if _, ok := s.users[u.UID]; ok {
			return cerr.Conflict(model.ErrDuplicateUser)
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now()
		}
		s.users[u.UID] = *u
		return nil
	})
}

func (q usersQueryer) Update(
	ctx context.Context,
	uid, firstName, lastName string,
	employment model.EmploymentCategory,
) error {
	return q.v.do(func(s *snapshot) error {
		u, ok := s.users[uid]
		if !ok {
			return userNotFound(uid)
		}
		u.FirstName, u.LastName, u.Employment = firstName, lastName, employment
		s.users[uid] = u
		return nil
	})
}

func (q usersQueryer) Delete(ctx context.Context, uid string) error {
	return q.v.do(func(s *snapshot) error {
		if _, ok := s.users[uid]; !ok {
			return userNotFound(uid)
		}
		delete(s.users, uid)
		return nil
	})
}

func (q usersQueryer) List(
	ctx context.Context, role model.Role,
) (users []model.UserProfile, err error) {
	err = q.v.do(func(s *snapshot) error {
		users = make([]model.UserProfile, 0, len(s.users))
		for _, u := range s.users {
			if u.Role == role {
				users = append(users, u)
			}
		}
		return nil
	})
	sort.Slice(users, func(i, j int) bool {
		if users[i].LastName != users[j].LastName {
			return users[i].LastName < users[j].LastName
		}
		return users[i].FirstName < users[j].FirstName
	})
	return users, err
}

// PutUser stores u as-is, replacing any profile with the same uid.
// It is meant for seeding development stores and tests, e.g., with
// profiles having invalid roles.
func (p *Pool) PutUser(u model.UserProfile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.users[u.UID] = u
}
