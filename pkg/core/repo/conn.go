package repo

import "context"

type TxHandler func(context.Context, Tx) error

// Conn represents one store connection. It is unsafe to be used
// concurrently.
type Conn interface {
	// Tx begins a transaction and passes it to handler. The transaction
	// is committed if handler returns nil and is rolled back if handler
	// returns an error or panics. Keys which are written in a Tx must be
	// known before it begins because repositories do not offer query
	// methods to a Tx beyond those which are listed in TxQueryer
	// interfaces.
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
