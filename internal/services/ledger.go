package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"grana/internal/amqp"
	"grana/internal/core"
	"grana/internal/storage"
)

// LedgerService is the single write path of the ledger. Every mutation that
// can move an account balance goes through here, so the balance invariant
// lives in exactly one place.
type LedgerService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
	now        func() time.Time
}

func NewLedgerService(storage *storage.Repository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
		now:        time.Now,
	}
}

// CreateTransaction validates and posts a transaction. A zero date defaults
// to today. The ledger event is published after commit, best effort: a
// broker outage never fails the request.
func (s *LedgerService) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	if t.Date.IsZero() {
		t.Date = core.Today(s.now())
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if err := s.storage.InsertTransaction(ctx, t); err != nil {
		return fmt.Errorf("post transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.EventTransactionCreated, t, t.SignedCents())
	return nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id int64) error {
	deleted, err := s.storage.DeleteTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	s.publishEvent(ctx, amqp.EventTransactionDeleted, deleted, -deleted.SignedCents())
	return nil
}

// UpdateTransaction applies a partial update. Description, category, date
// and the recurring flag may change; amount, kind and origin are frozen at
// creation, because rewriting them would silently falsify the balance
// history.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID, id int64, upd core.TransactionUpdate) (*core.Transaction, error) {
	t, err := s.storage.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upd.AmountCents != nil && *upd.AmountCents != t.Amount.Cents {
		return nil, fmt.Errorf("amount: %w", core.ErrImmutableField)
	}
	if upd.Kind != nil && *upd.Kind != t.Kind {
		return nil, fmt.Errorf("kind: %w", core.ErrImmutableField)
	}
	if upd.Origin != nil && *upd.Origin != t.Origin {
		return nil, fmt.Errorf("origin: %w", core.ErrImmutableField)
	}

	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.CategoryID != nil {
		t.CategoryID = *upd.CategoryID
	}
	if upd.Date != nil {
		t.Date = *upd.Date
	}
	if upd.Recurring != nil {
		t.Recurring = *upd.Recurring
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.UpdateTransaction(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddFunds credits an account by posting a synthetic income transaction, so
// the deposit shows up in history like any other movement.
func (s *LedgerService) AddFunds(ctx context.Context, userID, accountID, cents int64, description string) (*core.Transaction, error) {
	if cents <= 0 {
		return nil, fmt.Errorf("deposit amount: %w", core.ErrInvalidAmount)
	}
	if description == "" {
		description = "Depósito"
	}

	t := &core.Transaction{
		UserID:      userID,
		Description: description,
		Amount:      core.Money{Cents: cents},
		Kind:        core.Income,
		Origin:      core.AccountRef(accountID),
	}
	if err := s.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateCard registers a credit card. A positive opening amount becomes a
// card expense dated so it lands in the statement the user is looking at
// when they add the card.
func (s *LedgerService) CreateCard(ctx context.Context, card *core.CreditCard, openingCents int64) error {
	if err := card.Validate(); err != nil {
		return err
	}
	if openingCents < 0 {
		return fmt.Errorf("opening amount: %w", core.ErrInvalidAmount)
	}

	if err := s.storage.CreateCard(ctx, card); err != nil {
		return err
	}

	if openingCents > 0 {
		opening := &core.Transaction{
			UserID:      card.UserID,
			Description: "Saldo inicial da fatura",
			Amount:      core.Money{Cents: openingCents},
			Kind:        core.Expense,
			Date:        core.OpeningPurchaseDate(card.ClosingDay, core.Today(s.now())),
			Origin:      core.CardRef(card.ID),
		}
		if err := s.CreateTransaction(ctx, opening); err != nil {
			return fmt.Errorf("post opening amount: %w", err)
		}
	}

	return nil
}

func (s *LedgerService) CreateAccount(ctx context.Context, a *core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.storage.CreateAccount(ctx, a)
}

func (s *LedgerService) RenameAccount(ctx context.Context, userID, id int64, name string) error {
	if a := (core.Account{Name: name}); a.Validate() != nil {
		return core.ErrEmptyName
	}
	return s.storage.RenameAccount(ctx, userID, id, name)
}

func (s *LedgerService) DeleteAccount(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteAccount(ctx, userID, id)
}

func (s *LedgerService) publishEvent(ctx context.Context, event string, t *core.Transaction, deltaCents int64) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping ledger event",
			"event", event, "transaction_id", t.ID)
		return
	}

	var accountID int64
	if t.Origin.Kind == core.OriginAccount {
		accountID = t.Origin.ID
	}

	e := amqp.NewLedgerEvent(event, t.ID, t.UserID, accountID, deltaCents)
	if err := s.amqpClient.PublishLedgerEvent(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"event", event, "transaction_id", t.ID, "error", err)
	}
}
