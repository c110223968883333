package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/playvault/playvault/internal/store"
)

// MemoryRepository keeps players in process memory. It shares the memory
// store's mutex, so transactional calls rely on the open unit of work holding
// the lock and non-transactional reads go through store.Memory.View.
type MemoryRepository struct {
	mem     *store.Memory
	players map[string]*Player
}

// NewMemoryRepository constructs an in-memory repository for tests, bound to
// the same memory store the ledger uses.
func NewMemoryRepository(mem *store.Memory) *MemoryRepository {
	return &MemoryRepository{mem: mem, players: make(map[string]*Player)}
}

func (r *MemoryRepository) Create(_ context.Context, p Player) error {
	var err error
	r.mem.View(func() {
		if _, exists := r.players[p.ID]; exists {
			err = errors.New("player exists")
			return
		}
		for _, existing := range r.players {
			if existing.Username == p.Username {
				err = fmt.Errorf("username %s: %w", p.Username, ErrUsernameTaken)
				return
			}
		}
		cp := p
		r.players[p.ID] = &cp
	})
	return err
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (Player, error) {
	var p Player
	var err error
	r.mem.View(func() {
		stored, ok := r.players[id]
		if !ok {
			err = fmt.Errorf("player %s: %w", id, ErrNotFound)
			return
		}
		p = *stored
	})
	return p, err
}

func (r *MemoryRepository) Balance(_ context.Context, id string) (int64, error) {
	var balance int64
	var err error
	r.mem.View(func() {
		stored, ok := r.players[id]
		if !ok {
			err = fmt.Errorf("player %s: %w", id, ErrNotFound)
			return
		}
		balance = stored.Balance
	})
	return balance, err
}

func (r *MemoryRepository) BalanceForUpdate(_ context.Context, tx store.Tx, id string) (int64, error) {
	if _, ok := store.MemFrom(tx); !ok {
		return 0, errors.New("balance for update: foreign unit of work")
	}
	// The open unit of work holds the store mutex.
	stored, ok := r.players[id]
	if !ok {
		return 0, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return stored.Balance, nil
}

func (r *MemoryRepository) ApplyDelta(_ context.Context, tx store.Tx, id string, delta int64) error {
	mtx, ok := store.MemFrom(tx)
	if !ok {
		return errors.New("apply delta: foreign unit of work")
	}
	stored, exists := r.players[id]
	if !exists {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	prev := stored.Balance
	stored.Balance += delta
	mtx.Undo(func() { stored.Balance = prev })
	return nil
}
