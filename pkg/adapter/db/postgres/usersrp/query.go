// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp implements the repo.Users interface for PostgreSQL.
// Roles and employment categories are stored as their strings.
package usersrp

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/taxiweb/pkg/adapter/db/postgres"
	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gUser struct {
	UID        string `gorm:"primaryKey;column:uid"`
	Email      string
	FirstName  string
	LastName   string
	Role       string
	Employment string
	CreatedAt  time.Time
}

func (gu *gUser) TableName() string {
	return "users"
}

// Model converts gu to a model.UserProfile. Unknown roles are kept as
// the model.RoleInvalid value, so they can be rejected by use cases.
func (gu *gUser) Model() *model.UserProfile {
	role, _ := model.ParseRole(gu.Role)
	employment, _ := model.ParseEmployment(gu.Employment)
	return &model.UserProfile{
		UID:        gu.UID,
		Email:      gu.Email,
		FirstName:  gu.FirstName,
		LastName:   gu.LastName,
		Role:       role,
		Employment: employment,
		CreatedAt:  gu.CreatedAt,
	}
}

func notFound(uid string) error {
	return cerr.NotFound(&model.NotFoundError{Collection: "users", ID: uid})
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, uid string) (*model.UserProfile, error) {
	var gu []gUser
	err := q.GORM(ctx).Where("uid = ?", uid).Limit(1).Find(&gu).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gu) == 0 {
		return nil, notFound(uid)
	}
	return gu[0].Model(), nil
}

// Lock reads the uid profile and locks its row until the end of q tx.
func Lock(ctx context.Context, q *postgres.Tx, uid string) (*model.UserProfile, error) {
	var gu []gUser
	err := q.GORM(ctx).Clauses(
		clause.Locking{Strength: "UPDATE"},
	).Where("uid = ?", uid).Find(&gu).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gu) == 0 {
		return nil, notFound(uid)
	}
	return gu[0].Model(), nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, u *model.UserProfile) error {
	role, err := u.Role.MarshalText()
	if err != nil {
		return cerr.BadRequest(err)
	}
	gu := gUser{
		UID:        u.UID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(role),
		Employment: u.Employment.String(),
		CreatedAt:  u.CreatedAt,
	}
	err = q.GORM(ctx).Create(&gu).Error
	if postgres.IsUniqueViolation(err) {
		return cerr.Conflict(model.ErrDuplicateUser)
	}
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	u.CreatedAt = gu.CreatedAt
	return nil
}

func Update[Q postgres.Queryer](
	ctx context.Context, q Q,
	uid, firstName, lastName string,
	employment model.EmploymentCategory,
) error {
	res := q.GORM(ctx).Model(&gUser{}).Where("uid = ?", uid).Updates(
		map[string]any{
			"first_name": firstName,
			"last_name":  lastName,
			"employment": employment.String(),
		},
	)
	if err := res.Error; err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if res.RowsAffected == 0 {
		return notFound(uid)
	}
	return nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, uid string) error {
	res := q.GORM(ctx).Where("uid = ?", uid).Delete(&gUser{})
	if err := res.Error; err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if res.RowsAffected == 0 {
		return notFound(uid)
	}
	return nil
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q, role model.Role,
) ([]model.UserProfile, error) {
	var gu []gUser
	err := q.GORM(ctx).Where("role = ?", role.String()).Order(
		"last_name, first_name",
	).Find(&gu).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	users := make([]model.UserProfile, 0, len(gu))
	for i := range gu {
		users = append(users, *gu[i].Model())
	}
	return users, nil
}
