package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/playvault/playvault/internal/player"
)

// RegisterPlayerRoutes wires player provisioning endpoints.
func RegisterPlayerRoutes(r fiber.Router, h *player.Handler, rateLimiter fiber.Handler) {
	r.Post("/players", rateLimiter, h.Create)
}
