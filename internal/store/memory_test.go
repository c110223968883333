package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRollbackReplaysUndoInReverse(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	value := 0

	tx, err := m.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	mt, ok := MemFrom(tx)
	if !ok {
		t.Fatalf("expected memory tx")
	}

	value = 1
	mt.Undo(func() { value = 0 })
	value = 2
	mt.Undo(func() { value = 1 })

	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if value != 0 {
		t.Fatalf("expected undo chain to restore 0, got %d", value)
	}
}

func TestMemoryCommitDiscardsUndo(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	value := 0

	tx, _ := m.Begin(ctx)
	mt, _ := MemFrom(tx)
	value = 5
	mt.Undo(func() { value = 0 })

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	// Rollback after commit must be a no-op.
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback after commit: %v", err)
	}
	if value != 5 {
		t.Fatalf("expected committed value 5, got %d", value)
	}
}

func TestMemorySerializesUnitsOfWork(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	tx, _ := m.Begin(ctx)

	entered := make(chan struct{})
	go func() {
		second, _ := m.Begin(ctx)
		close(entered)
		second.Rollback(ctx) // nolint:errcheck
	}()

	select {
	case <-entered:
		t.Fatal("second unit of work started while the first was open")
	case <-time.After(50 * time.Millisecond):
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("second unit of work never started after commit")
	}
}
