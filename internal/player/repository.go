package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/playvault/playvault/internal/store"
)

var (
	// ErrNotFound occurs when no player exists for the given id.
	ErrNotFound = errors.New("player not found")

	// ErrUsernameTaken occurs when a player with the same username already exists.
	ErrUsernameTaken = errors.New("username already taken")
)

const uniqueViolation = "23505"

// Repository reads player records and applies balance deltas. Mutating calls
// take a store.Tx so they run inside the caller's unit of work; the
// repository never commits and applies no bounds of its own; sufficiency
// checks belong to the ledger service.
type Repository interface {
	Create(ctx context.Context, p Player) error
	GetByID(ctx context.Context, id string) (Player, error)
	Balance(ctx context.Context, id string) (int64, error)
	// BalanceForUpdate reads the balance with the player row locked for the
	// remainder of the unit of work.
	BalanceForUpdate(ctx context.Context, tx store.Tx, id string) (int64, error)
	// ApplyDelta adds delta (positive for credit, negative for debit) to the
	// player's balance inside the given unit of work.
	ApplyDelta(ctx context.Context, tx store.Tx, id string, delta int64) error
}

// PostgresRepository stores players in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a player record.
func (r *PostgresRepository) Create(ctx context.Context, p Player) error {
	playerID, err := parseID(p.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO players (id, username, balance, created_at)
        VALUES ($1, $2, $3, $4)`, playerID, p.Username, p.Balance, p.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("username %s: %w", p.Username, ErrUsernameTaken)
		}
		return store.Classify(err)
	}
	return nil
}

// GetByID fetches a player by identifier.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Player, error) {
	playerID, err := parseID(id)
	if err != nil {
		return Player{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT id, username, balance, created_at
        FROM players WHERE id = $1`, playerID)
	var p Player
	var idVal uuid.UUID
	var createdAt time.Time
	if err := row.Scan(&idVal, &p.Username, &p.Balance, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Player{}, fmt.Errorf("player %s: %w", id, ErrNotFound)
		}
		return Player{}, store.Classify(err)
	}
	p.ID = idVal.String()
	p.CreatedAt = createdAt.UTC()
	return p, nil
}

// Balance returns the current balance without locking the row.
func (r *PostgresRepository) Balance(ctx context.Context, id string) (int64, error) {
	playerID, err := parseID(id)
	if err != nil {
		return 0, err
	}
	var balance int64
	if err := r.db.QueryRow(ctx, `SELECT balance FROM players WHERE id = $1`, playerID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("player %s: %w", id, ErrNotFound)
		}
		return 0, store.Classify(err)
	}
	return balance, nil
}

// BalanceForUpdate reads the balance with the row locked until the unit of
// work commits or rolls back.
func (r *PostgresRepository) BalanceForUpdate(ctx context.Context, tx store.Tx, id string) (int64, error) {
	ptx, ok := store.PgxFrom(tx)
	if !ok {
		return 0, errors.New("balance for update: foreign unit of work")
	}
	playerID, err := parseID(id)
	if err != nil {
		return 0, err
	}
	var balance int64
	if err := ptx.QueryRow(ctx, `SELECT balance FROM players WHERE id = $1 FOR UPDATE`, playerID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("player %s: %w", id, ErrNotFound)
		}
		return 0, store.Classify(err)
	}
	return balance, nil
}

// ApplyDelta adjusts the balance inside the caller's unit of work.
func (r *PostgresRepository) ApplyDelta(ctx context.Context, tx store.Tx, id string, delta int64) error {
	ptx, ok := store.PgxFrom(tx)
	if !ok {
		return errors.New("apply delta: foreign unit of work")
	}
	playerID, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := ptx.Exec(ctx, `UPDATE players SET balance = balance + $1 WHERE id = $2`, delta, playerID)
	if err != nil {
		return store.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return nil
}

// parseID maps malformed identifiers onto ErrNotFound: an id that is not a
// UUID cannot name a player.
func parseID(id string) (uuid.UUID, error) {
	playerID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return playerID, nil
}
