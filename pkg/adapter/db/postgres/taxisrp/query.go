// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package taxisrp implements the repo.Taxis interface for PostgreSQL.
package taxisrp

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/taxiweb/pkg/adapter/db/postgres"
	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gTaxi struct {
	ID           string `gorm:"primaryKey;column:id"`
	LicensePlate string
	Active       bool
	CreatedAt    time.Time
	CreatedBy    string
}

func (gt *gTaxi) TableName() string {
	return "taxis"
}

func (gt *gTaxi) Model() *model.Taxi {
	return &model.Taxi{
		ID:           gt.ID,
		LicensePlate: gt.LicensePlate,
		Active:       gt.Active,
		CreatedAt:    gt.CreatedAt,
		CreatedBy:    gt.CreatedBy,
	}
}

func notFound(id string) error {
	return cerr.NotFound(&model.NotFoundError{Collection: "taxis", ID: id})
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, id string) (*model.Taxi, error) {
	var gt []gTaxi
	err := q.GORM(ctx).Where("id = ?", id).Limit(1).Find(&gt).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gt) == 0 {
		return nil, notFound(id)
	}
	return gt[0].Model(), nil
}

// Lock reads the id taxi and locks its row until the end of q tx.
func Lock(ctx context.Context, q *postgres.Tx, id string) (*model.Taxi, error) {
	var gt []gTaxi
	err := q.GORM(ctx).Clauses(
		clause.Locking{Strength: "UPDATE"},
	).Where("id = ?", id).Find(&gt).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gt) == 0 {
		return nil, notFound(id)
	}
	return gt[0].Model(), nil
}

func Exists[Q postgres.Queryer](ctx context.Context, q Q, id string) (bool, error) {
	var n int64
	err := q.GORM(ctx).Model(&gTaxi{}).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return n > 0, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, t *model.Taxi) error {
	gt := gTaxi{
		ID:           t.ID,
		LicensePlate: t.LicensePlate,
		Active:       t.Active,
		CreatedAt:    t.CreatedAt,
		CreatedBy:    t.CreatedBy,
	}
	err := q.GORM(ctx).Create(&gt).Error
	if postgres.IsUniqueViolation(err) {
		return cerr.Conflict(&model.CollisionError{
			TaxiID: t.ID, LicensePlate: t.LicensePlate,
		})
	}
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	t.CreatedAt = gt.CreatedAt
	return nil
}

func Update[Q postgres.Queryer](
	ctx context.Context, q Q, id, plate string, active bool,
) error {
	res := q.GORM(ctx).Model(&gTaxi{}).Where("id = ?", id).Updates(
		map[string]any{"license_plate": plate, "active": active},
	)
	if err := res.Error; err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if res.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, id string) error {
	res := q.GORM(ctx).Where("id = ?", id).Delete(&gTaxi{})
	if err := res.Error; err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if res.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q, activeOnly bool,
) ([]model.Taxi, error) {
	gdb := q.GORM(ctx).Order("license_plate")
	if activeOnly {
		gdb = gdb.Where("active")
	}
	var gt []gTaxi
	if err := gdb.Find(&gt).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	taxis := make([]model.Taxi, 0, len(gt))
	for i := range gt {
		taxis = append(taxis, *gt[i].Model())
	}
	return taxis, nil
}
