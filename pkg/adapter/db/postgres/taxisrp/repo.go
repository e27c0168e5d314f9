package taxisrp

import (
	"context"

	"github.com/momeni/taxiweb/pkg/adapter/db/postgres"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

// queryer implements the queries which run on both of Conn and Tx.
type queryer[Q postgres.Queryer] struct {
	q Q
}

func (gq queryer[Q]) Get(ctx context.Context, id string) (*model.Taxi, error) {
	return Get(ctx, gq.q, id)
}

func (gq queryer[Q]) Exists(ctx context.Context, id string) (bool, error) {
	return Exists(ctx, gq.q, id)
}

func (gq queryer[Q]) Create(ctx context.Context, t *model.Taxi) error {
	return Create(ctx, gq.q, t)
}

func (gq queryer[Q]) Update(ctx context.Context, id, plate string, active bool) error {
	return Update(ctx, gq.q, id, plate, active)
}

func (gq queryer[Q]) Delete(ctx context.Context, id string) error {
	return Delete(ctx, gq.q, id)
}

type connQueryer struct {
	queryer[*postgres.Conn]
}

func (taxis *Repo) Conn(c repo.Conn) repo.TaxisConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{queryer[*postgres.Conn]{q: cc}}
}

func (cq connQueryer) List(ctx context.Context, activeOnly bool) ([]model.Taxi, error) {
	return List(ctx, cq.q, activeOnly)
}

type txQueryer struct {
	queryer[*postgres.Tx]
}

func (taxis *Repo) Tx(tx repo.Tx) repo.TaxisTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{queryer[*postgres.Tx]{q: tt}}
}

func (tq txQueryer) Lock(ctx context.Context, id string) (*model.Taxi, error) {
	return Lock(ctx, tq.q, id)
}
