package usersrp

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

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (gq queryer[Q]) Get(ctx context.Context, uid string) (*model.UserProfile, error) {
	return Get(ctx, gq.q, uid)
}

func (gq queryer[Q]) Create(ctx context.Context, u *model.UserProfile) error {
	return Create(ctx, gq.q, u)
}

func (gq queryer[Q]) Update(
	ctx context.Context,
	uid, firstName, lastName string,
	employment model.EmploymentCategory,
) error {
	return Update(ctx, gq.q, uid, firstName, lastName, employment)
}

func (gq queryer[Q]) Delete(ctx context.Context, uid string) error {
	return Delete(ctx, gq.q, uid)
}

type connQueryer struct {
	queryer[*postgres.Conn]
}

func (users *Repo) Conn(c repo.Conn) repo.UsersConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{queryer[*postgres.Conn]{q: cc}}
}

func (cq connQueryer) List(ctx context.Context, role model.Role) ([]model.UserProfile, error) {
	return List(ctx, cq.q, role)
}

type txQueryer struct {
	queryer[*postgres.Tx]
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{queryer[*postgres.Tx]{q: tt}}
}

func (tq txQueryer) Lock(ctx context.Context, uid string) (*model.UserProfile, error) {
	return Lock(ctx, tq.q, uid)
}
