package player

import (
	"context"
	"errors"
	"testing"

	"github.com/playvault/playvault/internal/store"
)

func TestServiceCreateAndGet(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(NewMemoryRepository(mem))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Username: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Balance != 0 {
		t.Fatalf("unexpected player: %+v", created)
	}

	fetched, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Username != "alice" {
		t.Fatalf("expected username alice, got %s", fetched.Username)
	}
}

func TestServiceCreateRejectsBlankUsername(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(NewMemoryRepository(mem))

	if _, err := svc.Create(context.Background(), CreateInput{Username: "   "}); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected invalid username, got %v", err)
	}
}

func TestServiceCreateDuplicateUsername(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(NewMemoryRepository(mem))
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Username: "alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Username: "alice"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
}

func TestRepositoryApplyDeltaRollsBack(t *testing.T) {
	mem := store.NewMemory()
	repo := NewMemoryRepository(mem)
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Username: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	SeedBalance(repo, p.ID, 100)

	tx, err := mem.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := repo.ApplyDelta(ctx, tx, p.ID, -30); err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	// The uncommitted debit is visible inside the unit of work.
	if balance, _ := repo.BalanceForUpdate(ctx, tx, p.ID); balance != 70 {
		t.Fatalf("expected staged balance 70, got %d", balance)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	balance, err := repo.Balance(ctx, p.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 100 {
		t.Fatalf("expected balance restored to 100, got %d", balance)
	}
}

func TestRepositoryNotFound(t *testing.T) {
	mem := store.NewMemory()
	repo := NewMemoryRepository(mem)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.Balance(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	tx, _ := mem.Begin(ctx)
	defer tx.Rollback(ctx) // nolint:errcheck
	if err := repo.ApplyDelta(ctx, tx, "missing", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
