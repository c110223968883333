package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/playvault/playvault/internal/notification"
	"github.com/playvault/playvault/internal/player"
	"github.com/playvault/playvault/internal/store"
)

// Service validates business rules and composes the player repository and the
// transaction log into atomic operations. Every mutating operation runs as a
// single unit of work spanning the balance mutation(s) and the log append:
// the unit commits only if every step succeeds, and any failure (the append
// included) rolls all of it back and propagates the original error.
//
// Operations are not idempotent: replaying a deposit produces two credits and
// two entries.
type Service struct {
	store    store.Store
	players  player.Repository
	log      Log
	notifier notification.Notifier
}

// NewService constructs the ledger service.
func NewService(st store.Store, players player.Repository, log Log, notifier notification.Notifier) *Service {
	return &Service{store: st, players: players, log: log, notifier: notifier}
}

// CheckBalance returns the player's current balance.
func (s *Service) CheckBalance(ctx context.Context, playerID string) (int64, error) {
	if _, err := s.players.GetByID(ctx, playerID); err != nil {
		return 0, err
	}
	return s.players.Balance(ctx, playerID)
}

// Deposit credits the player and appends a deposit entry atomically.
func (s *Service) Deposit(ctx context.Context, playerID string, amount int64) error {
	if _, err := s.players.GetByID(ctx, playerID); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("deposit: %w", ErrInvalidAmount)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := s.players.ApplyDelta(ctx, tx, playerID, amount); err != nil {
		return err
	}
	entry := Transaction{
		ID:       uuid.New().String(),
		ToPlayer: playerID,
		Amount:   amount,
		Type:     TypeDeposit,
	}
	if err := s.log.Append(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Withdraw debits the player and appends a withdraw entry atomically. The
// sufficiency check reads the balance with the row locked inside the same
// unit of work, so concurrent debits against one player serialize instead of
// both passing the check.
func (s *Service) Withdraw(ctx context.Context, playerID string, amount int64) error {
	if _, err := s.players.GetByID(ctx, playerID); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("withdraw: %w", ErrInvalidAmount)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	balance, err := s.players.BalanceForUpdate(ctx, tx, playerID)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("player %s: %w", playerID, ErrInsufficientFunds)
	}

	if err := s.players.ApplyDelta(ctx, tx, playerID, -amount); err != nil {
		return err
	}
	entry := Transaction{
		ID:         uuid.New().String(),
		FromPlayer: playerID,
		Amount:     amount,
		Type:       TypeWithdraw,
	}
	if err := s.log.Append(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Transfer debits the sender, credits the receiver, and appends a single
// transfer entry, all in one unit of work. Rows lock in ascending id order so
// two opposing transfers cannot deadlock.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer: %w", ErrInvalidAmount)
	}
	if _, err := s.players.GetByID(ctx, fromID); err != nil {
		return err
	}
	to, err := s.players.GetByID(ctx, toID)
	if err != nil {
		return err
	}
	if fromID == toID {
		return fmt.Errorf("player %s: %w", fromID, ErrSameAccountTransfer)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	lockOrder := []string{fromID, toID}
	if toID < fromID {
		lockOrder[0], lockOrder[1] = toID, fromID
	}
	var fromBalance int64
	for _, id := range lockOrder {
		balance, err := s.players.BalanceForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if id == fromID {
			fromBalance = balance
		}
	}
	if fromBalance < amount {
		return fmt.Errorf("player %s: %w", fromID, ErrInsufficientFunds)
	}

	if err := s.players.ApplyDelta(ctx, tx, fromID, -amount); err != nil {
		return err
	}
	if err := s.players.ApplyDelta(ctx, tx, toID, amount); err != nil {
		return err
	}
	entry := Transaction{
		ID:         uuid.New().String(),
		FromPlayer: fromID,
		ToPlayer:   toID,
		Amount:     amount,
		Type:       TypeTransfer,
	}
	if err := s.log.Append(ctx, tx, entry); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: to.Username,
			Body:        fmt.Sprintf("You received %d from player %s", amount, fromID),
		})
	}

	return nil
}

// History returns every entry where the player is sender or receiver, newest
// first. A limit <= 0 returns the full history.
func (s *Service) History(ctx context.Context, playerID string, limit int) ([]Transaction, error) {
	if _, err := s.players.GetByID(ctx, playerID); err != nil {
		return nil, err
	}
	return s.log.History(ctx, playerID, limit)
}
