package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/playvault/playvault/internal/ledger"
)

// RegisterLedgerRoutes wires the ledger operations. Mutating endpoints sit
// behind the rate limiter; reads do not.
func RegisterLedgerRoutes(r fiber.Router, h *ledger.Handler, rateLimiter fiber.Handler) {
	r.Get("/players/:playerId/balance", h.Balance)
	r.Get("/players/:playerId/transactions", h.History)
	r.Post("/deposit", rateLimiter, h.Deposit)
	r.Post("/withdraw", rateLimiter, h.Withdraw)
	r.Post("/transfer", rateLimiter, h.Transfer)
}
