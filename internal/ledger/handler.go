package ledger

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/playvault/playvault/internal/player"
)

// Handler exposes the ledger operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a ledger handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type amountRequest struct {
	PlayerID string `json:"player_id"`
	Amount   int64  `json:"amount"`
}

type transferRequest struct {
	FromPlayer string `json:"from_player"`
	ToPlayer   string `json:"to_player"`
	Amount     int64  `json:"amount"`
}

type transactionResponse struct {
	ID         string    `json:"id"`
	FromPlayer string    `json:"from_player,omitempty"`
	ToPlayer   string    `json:"to_player,omitempty"`
	Amount     int64     `json:"amount"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}

// Balance returns the player's current balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	playerID := c.Params("playerId")
	balance, err := h.service.CheckBalance(c.UserContext(), playerID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"player_id": playerID,
		"balance":   balance,
	})
}

// Deposit credits a player's account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.Deposit(c.UserContext(), req.PlayerID, req.Amount); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("deposited %d to player %s", req.Amount, req.PlayerID),
	})
}

// Withdraw debits a player's account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.Withdraw(c.UserContext(), req.PlayerID, req.Amount); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("withdrawn %d from player %s", req.Amount, req.PlayerID),
	})
}

// Transfer moves funds between two players.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.Transfer(c.UserContext(), req.FromPlayer, req.ToPlayer, req.Amount); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("transferred %d from %s to %s", req.Amount, req.FromPlayer, req.ToPlayer),
	})
}

// History lists a player's transactions, newest first. An optional limit
// query parameter caps the result size.
func (h *Handler) History(c *fiber.Ctx) error {
	playerID := c.Params("playerId")
	limit := c.QueryInt("limit", 0)
	history, err := h.service.History(c.UserContext(), playerID, limit)
	if err != nil {
		return mapError(err)
	}
	transactions := make([]transactionResponse, 0, len(history))
	for _, t := range history {
		transactions = append(transactions, transactionResponse{
			ID:         t.ID,
			FromPlayer: t.FromPlayer,
			ToPlayer:   t.ToPlayer,
			Amount:     t.Amount,
			Type:       string(t.Type),
			CreatedAt:  t.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"player_id":    playerID,
		"transactions": transactions,
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, player.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrSameAccountTransfer):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
