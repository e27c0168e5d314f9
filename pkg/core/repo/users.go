package repo

import (
	"context"

	"github.com/momeni/taxiweb/pkg/core/model"
)

type UsersConnQueryer interface {
	UsersQueryer

	// List returns profiles having the given role, sorted by their
	// last and first names.
	List(ctx context.Context, role model.Role) ([]model.UserProfile, error)
}

type UsersTxQueryer interface {
	UsersQueryer

	// Lock reads the uid profile like Get and keeps it locked against
	// concurrent writers (and lockers) until the Tx finishes.
	Lock(ctx context.Context, uid string) (*model.UserProfile, error)
}

// UsersQueryer lists the user profile queries which may run on either
// a Conn or a Tx. Get returns profiles with unparsable roles having
// the model.RoleInvalid value instead of failing, so their callers may
// decide how to reject them.
type UsersQueryer interface {
	Get(ctx context.Context, uid string) (*model.UserProfile, error)

	// Create inserts u. A duplicate uid is reported by
	// model.ErrDuplicateUser wrapped by cerr.Conflict.
	Create(ctx context.Context, u *model.UserProfile) error

	// Update replaces the names and employment category of uid.
	Update(
		ctx context.Context,
		uid, firstName, lastName string,
		employment model.EmploymentCategory,
	) error

	Delete(ctx context.Context, uid string) error
}

// Users is the user profiles collection repository.
type Users interface {
	Conn(Conn) UsersConnQueryer
	Tx(Tx) UsersTxQueryer
}
