package shiftsrp

import (
	"context"
	"time"

	"github.com/momeni/taxiweb/pkg/adapter/db/postgres"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (gq queryer[Q]) Get(ctx context.Context, id string) (*model.Shift, error) {
	return Get(ctx, gq.q, id)
}

func (gq queryer[Q]) EndingAfter(
	ctx context.Context, r model.Resource, id string, t time.Time,
) ([]model.Shift, error) {
	return EndingAfter(ctx, gq.q, r, id, t)
}

func (gq queryer[Q]) StartingBefore(
	ctx context.Context, r model.Resource, id string, t time.Time,
) ([]model.Shift, error) {
	return StartingBefore(ctx, gq.q, r, id, t)
}

func (gq queryer[Q]) IDsByTaxi(ctx context.Context, taxiID string) ([]string, error) {
	return IDsByTaxi(ctx, gq.q, taxiID)
}

func (gq queryer[Q]) Create(ctx context.Context, s *model.Shift) error {
	return Create(ctx, gq.q, s)
}

func (gq queryer[Q]) Update(ctx context.Context, s *model.Shift) error {
	return Update(ctx, gq.q, s)
}

func (gq queryer[Q]) Delete(ctx context.Context, id string) error {
	return Delete(ctx, gq.q, id)
}

type connQueryer struct {
	queryer[*postgres.Conn]
}

func (shifts *Repo) Conn(c repo.Conn) repo.ShiftsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{queryer[*postgres.Conn]{q: cc}}
}

func (cq connQueryer) List(ctx context.Context, f repo.ShiftsFilter) ([]model.Shift, error) {
	return List(ctx, cq.q, f)
}

func (cq connQueryer) SetTaxiPlate(ctx context.Context, taxiID, plate string) (int64, error) {
	return SetTaxiPlate(ctx, cq.q, taxiID, plate)
}

func (cq connQueryer) SetDriverName(
	ctx context.Context, driverID, firstName, lastName string,
) (int64, error) {
	return SetDriverName(ctx, cq.q, driverID, firstName, lastName)
}

type txQueryer struct {
	queryer[*postgres.Tx]
}

func (shifts *Repo) Tx(tx repo.Tx) repo.ShiftsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{queryer[*postgres.Tx]{q: tt}}
}

func (tq txQueryer) Repoint(ctx context.Context, ids []string, taxiID, plate string) error {
	return Repoint(ctx, tq.q, ids, taxiID, plate)
}

func (tq txQueryer) DeleteByDriver(ctx context.Context, driverID string) (int64, error) {
	return DeleteByDriver(ctx, tq.q, driverID)
}
