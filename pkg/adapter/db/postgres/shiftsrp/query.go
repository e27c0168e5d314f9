// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package shiftsrp implements the repo.Shifts interface for PostgreSQL.
// Shift IDs are UUIDs which are generated by the repository.
package shiftsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres"
	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"gorm.io/gorm/clause"
)

type gShift struct {
	ID               uuid.UUID `gorm:"primaryKey;type:uuid;column:id"`
	TaxiID           string
	TaxiLicensePlate string
	DriverID         string
	DriverFirstName  string
	DriverLastName   string
	Start            time.Time `gorm:"column:start_time"`
	End              time.Time `gorm:"column:end_time"`
	CreatedAt        time.Time
}

func (gs *gShift) TableName() string {
	return "shifts"
}

func (gs *gShift) Model() *model.Shift {
	return &model.Shift{
		ID:               gs.ID.String(),
		TaxiID:           gs.TaxiID,
		TaxiLicensePlate: gs.TaxiLicensePlate,
		DriverID:         gs.DriverID,
		DriverFirstName:  gs.DriverFirstName,
		DriverLastName:   gs.DriverLastName,
		Start:            gs.Start,
		End:              gs.End,
		CreatedAt:        gs.CreatedAt,
	}
}

func models(gs []gShift) []model.Shift {
	shifts := make([]model.Shift, 0, len(gs))
	for i := range gs {
		shifts = append(shifts, *gs[i].Model())
	}
	return shifts
}

func notFound(id string) error {
	return cerr.NotFound(&model.NotFoundError{Collection: "shifts", ID: id})
}

// column returns the shifts column which refers to an r resource.
func column(r model.Resource) (string, error) {
	switch r {
	case model.ResourceTaxi:
		return "taxi_id", nil
	case model.ResourceDriver:
		return "driver_id", nil
	default:
		return "", fmt.Errorf("unsupported resource: %d", r)
	}
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, id string) (*model.Shift, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, notFound(id)
	}
	var gs []gShift
	err = q.GORM(ctx).Where("id = ?", sid).Limit(1).Find(&gs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gs) == 0 {
		return nil, notFound(id)
	}
	return gs[0].Model(), nil
}

func EndingAfter[Q postgres.Queryer](
	ctx context.Context, q Q, r model.Resource, id string, t time.Time,
) ([]model.Shift, error) {
	col, err := column(r)
	if err != nil {
		return nil, err
	}
	var gs []gShift
	err = q.GORM(ctx).Where(
		col+" = ? AND end_time > ?", id, t,
	).Order("start_time").Find(&gs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gs), nil
}

func StartingBefore[Q postgres.Queryer](
	ctx context.Context, q Q, r model.Resource, id string, t time.Time,
) ([]model.Shift, error) {
	col, err := column(r)
	if err != nil {
		return nil, err
	}
	var gs []gShift
	err = q.GORM(ctx).Where(
		col+" = ? AND start_time < ?", id, t,
	).Order("start_time").Find(&gs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gs), nil
}

func IDsByTaxi[Q postgres.Queryer](ctx context.Context, q Q, taxiID string) ([]string, error) {
	var sids []uuid.UUID
	err := q.GORM(ctx).Model(&gShift{}).Where(
		"taxi_id = ?", taxiID,
	).Order("start_time").Pluck("id", &sids).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	ids := make([]string, 0, len(sids))
	for _, sid := range sids {
		ids = append(ids, sid.String())
	}
	return ids, nil
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q, f repo.ShiftsFilter,
) ([]model.Shift, error) {
	gdb := q.GORM(ctx).Order("start_time, id")
	if f.TaxiID != "" {
		gdb = gdb.Where("taxi_id = ?", f.TaxiID)
	}
	if f.DriverID != "" {
		gdb = gdb.Where("driver_id = ?", f.DriverID)
	}
	if !f.From.IsZero() {
		gdb = gdb.Where("end_time > ?", f.From)
	}
	if !f.To.IsZero() {
		gdb = gdb.Where("start_time < ?", f.To)
	}
	var gs []gShift
	if err := gdb.Find(&gs).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gs), nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, s *model.Shift) error {
	gs := gShift{
		ID:               uuid.New(),
		TaxiID:           s.TaxiID,
		TaxiLicensePlate: s.TaxiLicensePlate,
		DriverID:         s.DriverID,
		DriverFirstName:  s.DriverFirstName,
		DriverLastName:   s.DriverLastName,
		Start:            s.Start,
		End:              s.End,
		CreatedAt:        s.CreatedAt,
	}
	if err := q.GORM(ctx).Create(&gs).Error; err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	s.ID = gs.ID.String()
	s.CreatedAt = gs.CreatedAt
	return nil
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, s *model.Shift) error {
	sid, err := uuid.Parse(s.ID)
	if err != nil {
		return notFound(s.ID)
	}
	res := q.GORM(ctx).Model(&gShift{}).Where("id = ?", sid).Updates(
		map[string]any{
			"taxi_id":            s.TaxiID,
			"taxi_license_plate": s.TaxiLicensePlate,
			"driver_id":          s.DriverID,
			"driver_first_name":  s.DriverFirstName,
			"driver_last_name":   s.DriverLastName,
			"start_time":         s.Start,
			"end_time":           s.End,
		},
	)
	if err := res.Error; err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if res.RowsAffected == 0 {
		return notFound(s.ID)
	}
	return nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, id string) error {
	sid, err := uuid.Parse(id)
	if err != nil {
		return notFound(id)
	}
	res := q.GORM(ctx).Where("id = ?", sid).Delete(&gShift{})
	if err := res.Error; err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if res.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

func SetTaxiPlate(
	ctx context.Context, q *postgres.Conn, taxiID, plate string,
) (int64, error) {
	res := q.GORM(ctx).Model(&gShift{}).Where("taxi_id = ?", taxiID).Update(
		"taxi_license_plate", plate,
	)
	if err := res.Error; err != nil {
		return 0, fmt.Errorf("update: %w", err)
	}
	return res.RowsAffected, nil
}

func SetDriverName(
	ctx context.Context, q *postgres.Conn, driverID, firstName, lastName string,
) (int64, error) {
	res := q.GORM(ctx).Model(&gShift{}).Where("driver_id = ?", driverID).Updates(
		map[string]any{
			"driver_first_name": firstName,
			"driver_last_name":  lastName,
		},
	)
	if err := res.Error; err != nil {
		return 0, fmt.Errorf("update: %w", err)
	}
	return res.RowsAffected, nil
}

// Repoint locks the ids shifts, fails if any of them is missing, and
// then moves all of them to the taxiID taxi.
func Repoint(
	ctx context.Context, q *postgres.Tx, ids []string, taxiID, plate string,
) error {
	if len(ids) == 0 {
		return nil
	}
	sids := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		sid, err := uuid.Parse(id)
		if err != nil {
			return notFound(id)
		}
		sids = append(sids, sid)
	}
	var found []uuid.UUID
	err := q.GORM(ctx).Model(&gShift{}).Clauses(
		clause.Locking{Strength: "UPDATE"},
	).Where("id IN ?", sids).Pluck("id", &found).Error
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	present := make(map[uuid.UUID]bool, len(found))
	for _, sid := range found {
		present[sid] = true
	}
	for i, sid := range sids {
		if !present[sid] {
			return notFound(ids[i])
		}
	}
	err = q.GORM(ctx).Model(&gShift{}).Where("id IN ?", sids).Updates(
		map[string]any{"taxi_id": taxiID, "taxi_license_plate": plate},
	).Error
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

func DeleteByDriver(ctx context.Context, q *postgres.Tx, driverID string) (int64, error) {
	res := q.GORM(ctx).Where("driver_id = ?", driverID).Delete(&gShift{})
	if err := res.Error; err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}
	return res.RowsAffected, nil
}
