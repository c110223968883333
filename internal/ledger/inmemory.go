package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/playvault/playvault/internal/store"
)

// MemoryLog keeps transaction records in process memory, guarded by the same
// memory store the repositories share. Useful for unit tests.
type MemoryLog struct {
	mem     *store.Memory
	entries []Transaction
}

// NewMemoryLog creates an in-memory transaction log bound to the given store.
func NewMemoryLog(mem *store.Memory) *MemoryLog {
	return &MemoryLog{mem: mem}
}

// Append stores the entry; the open unit of work holds the store mutex. The
// append is undone if the unit of work rolls back.
func (l *MemoryLog) Append(_ context.Context, tx store.Tx, entry Transaction) error {
	mtx, ok := store.MemFrom(tx)
	if !ok {
		return errors.New("append: foreign unit of work")
	}
	entry.CreatedAt = time.Now().UTC()
	l.entries = append(l.entries, entry)
	mtx.Undo(func() { l.entries = l.entries[:len(l.entries)-1] })
	return nil
}

// History walks the log backwards so results come out newest first; appends
// happen under the store mutex, so insertion order follows creation time.
func (l *MemoryLog) History(_ context.Context, playerID string, limit int) ([]Transaction, error) {
	var history []Transaction
	l.mem.View(func() {
		for i := len(l.entries) - 1; i >= 0; i-- {
			e := l.entries[i]
			if e.FromPlayer == playerID || e.ToPlayer == playerID {
				history = append(history, e)
				if limit > 0 && len(history) == limit {
					return
				}
			}
		}
	})
	return history, nil
}

// Size is a test helper reporting the number of committed entries.
func (l *MemoryLog) Size() int {
	var n int
	l.mem.View(func() { n = len(l.entries) })
	return n
}
