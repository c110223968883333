package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/playvault/playvault/internal/store"
)

var (
	// ErrInvalidAmount occurs when an operation is requested with a
	// non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds occurs when the debited player lacks balance to
	// cover the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSameAccountTransfer occurs when a transfer names the same player on
	// both sides.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same player")
)

// Type classifies a ledger entry.
type Type string

const (
	TypeDeposit  Type = "deposit"
	TypeWithdraw Type = "withdraw"
	TypeTransfer Type = "transfer"
)

// Transaction is an immutable record of one balance-affecting event.
// FromPlayer is empty for deposits, ToPlayer is empty for withdrawals. The
// store assigns CreatedAt at write time; no update or delete path exists.
type Transaction struct {
	ID         string
	FromPlayer string
	ToPlayer   string
	Amount     int64
	Type       Type
	CreatedAt  time.Time
}

// Log appends and reads the transaction log. Append runs inside the caller's
// unit of work and never commits it; a failed append must abort the enclosing
// unit of work. History returns entries where the player is sender or
// receiver, newest first; limit <= 0 means unbounded.
type Log interface {
	Append(ctx context.Context, tx store.Tx, entry Transaction) error
	History(ctx context.Context, playerID string, limit int) ([]Transaction, error)
}
