package store

import (
	"context"
	"errors"
)

var (
	// ErrWriteRejected occurs when the ledger store refuses a statement or a
	// commit, for example on a constraint violation.
	ErrWriteRejected = errors.New("ledger store rejected write")

	// ErrUnavailable indicates the ledger store could not be reached.
	ErrUnavailable = errors.New("ledger store unavailable")
)

// Tx is a single unit of work against the ledger store. Writes performed
// through a Tx become visible only after Commit; Rollback discards all of
// them. Rollback after a successful Commit is a no-op, so callers may defer
// it unconditionally.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store opens units of work. Implementations must guarantee that no state
// written inside an uncommitted unit of work is observable outside of it.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}
