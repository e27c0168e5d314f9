package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Queryer is the type constraint of the generic query functions of
// the repository packages, so they may run on a Conn or a Tx.
type Queryer interface {
	*Conn | *Tx
	GORM(ctx context.Context) *gorm.DB
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}

// IsUniqueViolation reports whether err is caused by a violation of
// a primary key or unique constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsRetryable reports whether err is a serialization failure or
// a deadlock, so the whole transaction may be retried later.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
