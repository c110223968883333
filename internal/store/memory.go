package store

import (
	"context"
	"sync"
)

// Memory is an in-process store used by unit tests. A unit of work holds the
// store mutex from Begin until Commit or Rollback, so units of work serialize
// and no intermediate state is observable from outside.
type Memory struct {
	mu sync.Mutex
}

// NewMemory creates an in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Begin opens a unit of work and locks the store for its duration.
func (m *Memory) Begin(_ context.Context) (Tx, error) {
	m.mu.Lock()
	return &MemTx{m: m}, nil
}

// View runs fn while holding the store mutex. Non-transactional reads go
// through here so they cannot interleave with an open unit of work.
func (m *Memory) View(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

// MemTx is a unit of work against the memory store. Repositories mutate their
// state directly while it is open and register compensations through Undo;
// Rollback replays them in reverse order.
type MemTx struct {
	m    *Memory
	undo []func()
	done bool
}

// Undo registers a compensation to run if the unit of work rolls back.
func (t *MemTx) Undo(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *MemTx) Commit(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.undo = nil
	t.m.mu.Unlock()
	return nil
}

func (t *MemTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.m.mu.Unlock()
	return nil
}

// MemFrom exposes the memory transaction backing a Tx.
func MemFrom(tx Tx) (*MemTx, bool) {
	mt, ok := tx.(*MemTx)
	if !ok {
		return nil, false
	}
	return mt, true
}
