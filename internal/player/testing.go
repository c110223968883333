package player

// SeedBalance is a test helper that sets a player's balance directly when the
// memory repository is in use.
func SeedBalance(repo Repository, id string, amount int64) {
	mem, ok := repo.(*MemoryRepository)
	if !ok {
		return
	}
	mem.mem.View(func() {
		if stored, exists := mem.players[id]; exists {
			stored.Balance = amount
		}
	})
}
