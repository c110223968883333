package player

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes player provisioning endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a player HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Username string `json:"username"`
}

type playerResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// Create provisions a new player account.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	p, err := h.service.Create(c.UserContext(), CreateInput{Username: req.Username})
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			return fiber.NewError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidUsername):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(playerResponse{
		ID:        p.ID,
		Username:  p.Username,
		Balance:   p.Balance,
		CreatedAt: p.CreatedAt,
	})
}
