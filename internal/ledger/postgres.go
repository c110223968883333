package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/playvault/playvault/internal/store"
)

// PostgresLog persists transaction records in PostgreSQL.
type PostgresLog struct {
	db *pgxpool.Pool
}

// NewPostgresLog constructs a Postgres-backed transaction log.
func NewPostgresLog(db *pgxpool.Pool) *PostgresLog {
	return &PostgresLog{db: db}
}

// Append writes one immutable record inside the caller's unit of work. The
// database assigns created_at so ordering follows commit-side clocks.
func (l *PostgresLog) Append(ctx context.Context, tx store.Tx, entry Transaction) error {
	ptx, ok := store.PgxFrom(tx)
	if !ok {
		return errors.New("append: foreign unit of work")
	}
	entryID, err := uuid.Parse(entry.ID)
	if err != nil {
		return err
	}
	if _, err := ptx.Exec(ctx, `INSERT INTO transactions (id, from_player, to_player, amount, type, created_at)
        VALUES ($1, $2, $3, $4, $5, now())`,
		entryID, nullableID(entry.FromPlayer), nullableID(entry.ToPlayer), entry.Amount, string(entry.Type)); err != nil {
		return store.Classify(err)
	}
	return nil
}

// History returns entries involving the player, newest first.
func (l *PostgresLog) History(ctx context.Context, playerID string, limit int) ([]Transaction, error) {
	id, err := uuid.Parse(playerID)
	if err != nil {
		// A malformed id can be referenced by no entry.
		return nil, nil
	}

	query := `SELECT id, from_player, to_player, amount, type, created_at
        FROM transactions
        WHERE from_player = $1 OR to_player = $1
        ORDER BY created_at DESC`
	args := []any{id}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return nil, store.Classify(err)
	}
	defer rows.Close()

	var history []Transaction
	for rows.Next() {
		var t Transaction
		var entryID uuid.UUID
		var from, to *uuid.UUID
		var entryType string
		var createdAt time.Time
		if err := rows.Scan(&entryID, &from, &to, &t.Amount, &entryType, &createdAt); err != nil {
			return nil, store.Classify(err)
		}
		t.ID = entryID.String()
		if from != nil {
			t.FromPlayer = from.String()
		}
		if to != nil {
			t.ToPlayer = to.String()
		}
		t.Type = Type(entryType)
		t.CreatedAt = createdAt.UTC()
		history = append(history, t)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Classify(err)
	}
	return history, nil
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	return parsed
}
