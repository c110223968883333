package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres opens units of work backed by PostgreSQL transactions.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed store over the shared pool.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// Begin starts a database transaction.
func (p *Postgres) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, Classify(err)
	}
	return &pgxTx{tx: tx}, nil
}

// Migrate creates the ledger tables when they do not exist yet.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	const schema = `
        CREATE TABLE IF NOT EXISTS players (
            id UUID PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
        CREATE TABLE IF NOT EXISTS transactions (
            id UUID PRIMARY KEY,
            from_player UUID REFERENCES players (id),
            to_player UUID REFERENCES players (id),
            amount BIGINT NOT NULL CHECK (amount > 0),
            type TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
        CREATE INDEX IF NOT EXISTS transactions_from_player_idx ON transactions (from_player);
        CREATE INDEX IF NOT EXISTS transactions_to_player_idx ON transactions (to_player);`

	if _, err := db.Exec(ctx, schema); err != nil {
		return Classify(err)
	}
	return nil
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return Classify(err)
	}
	return nil
}

func (t *pgxTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return Classify(err)
	}
	return nil
}

// PgxFrom exposes the pgx transaction backing a Tx. Postgres repositories use
// it to run statements inside the caller's unit of work.
func PgxFrom(tx Tx) (pgx.Tx, bool) {
	pt, ok := tx.(*pgxTx)
	if !ok {
		return nil, false
	}
	return pt.tx, true
}

// Classify maps a driver-level error onto the store failure taxonomy: errors
// raised by the server (constraint violations and friends) become
// ErrWriteRejected, transport-level errors become ErrUnavailable. Context
// cancellation and row-scan misses pass through untouched so callers can
// translate them.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
