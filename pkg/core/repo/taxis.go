package repo

import (
	"context"

	"github.com/momeni/taxiweb/pkg/core/model"
)

// TaxisConnQueryer lists the taxis queries which may run on a Conn.
type TaxisConnQueryer interface {
	TaxisQueryer

	// List returns all taxis, or only the active ones if activeOnly
	// is true, sorted by their license plates.
	List(ctx context.Context, activeOnly bool) ([]model.Taxi, error)
}

// TaxisTxQueryer lists the taxis queries which may run on a Tx.
type TaxisTxQueryer interface {
	TaxisQueryer

	// Lock reads the id taxi like Get and keeps it locked against
	// concurrent writers (and lockers) until the Tx finishes.
	Lock(ctx context.Context, id string) (*model.Taxi, error)
}

// TaxisQueryer lists the taxis queries which may run on either a Conn
// or a Tx. Missing records are reported by a *model.NotFoundError
// which is wrapped by cerr.NotFound.
type TaxisQueryer interface {
	Get(ctx context.Context, id string) (*model.Taxi, error)
	Exists(ctx context.Context, id string) (bool, error)

	// Create inserts t as a new taxi. The CreatedAt is set to the
	// current time if it is zero, otherwise it is preserved.
	// An existing taxi with the same ID is reported by a
	// *model.CollisionError which is wrapped by cerr.Conflict.
	Create(ctx context.Context, t *model.Taxi) error

	// Update replaces the license plate and active flag of the id taxi.
	Update(ctx context.Context, id, plate string, active bool) error

	Delete(ctx context.Context, id string) error
}

// Taxis is the taxis collection repository.
type Taxis interface {
	Conn(Conn) TaxisConnQueryer
	Tx(Tx) TaxisTxQueryer
}
