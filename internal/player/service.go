package player

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidUsername occurs when a provisioning request carries no usable username.
var ErrInvalidUsername = errors.New("username is required")

// Service provisions player accounts. Players are never deleted; the ledger
// only ever mutates their balances.
type Service struct {
	repo Repository
}

// NewService builds a player service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to provision a player.
type CreateInput struct {
	Username string
}

// Create provisions a player with a zero balance.
func (s *Service) Create(ctx context.Context, input CreateInput) (Player, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return Player{}, ErrInvalidUsername
	}

	p := Player{
		ID:        uuid.New().String(),
		Username:  username,
		Balance:   0,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Player{}, err
	}

	return p, nil
}

// Get retrieves player metadata.
func (s *Service) Get(ctx context.Context, id string) (Player, error) {
	return s.repo.GetByID(ctx, id)
}
