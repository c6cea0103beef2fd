// Package storage provides abstractions for goal ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/sharedgoals/internal/models"
)

// ErrNotFound is returned when a goal does not exist in the store.
var ErrNotFound = errors.New("not found")

// Store defines the interface for goal and transaction storage.
// This abstraction allows swapping storage backends (memory, SQLite)
// without changing the ledger.
//
// Stores do not validate domain rules; the ledger checks invariants before
// writing. Goals passed in and returned are copies owned by the caller.
type Store interface {
	// CreateGoal persists a new goal with its members.
	CreateGoal(ctx context.Context, goal *models.SharedGoal) error

	// GetGoal retrieves a goal by its ID.
	// Returns an error wrapping ErrNotFound if the goal does not exist.
	GetGoal(ctx context.Context, goalID string) (*models.SharedGoal, error)

	// ListGoals returns all goals in creation order.
	ListGoals(ctx context.Context) ([]*models.SharedGoal, error)

	// UpdateGoal replaces a goal's fields and member list.
	// Returns an error wrapping ErrNotFound if the goal does not exist.
	UpdateGoal(ctx context.Context, goal *models.SharedGoal) error

	// RecordTransaction atomically updates the goal (new balances) and
	// appends the transaction.
	RecordTransaction(ctx context.Context, goal *models.SharedGoal, tx *models.Transaction) error

	// ListTransactions returns a goal's transactions, newest first.
	ListTransactions(ctx context.Context, goalID string) ([]*models.Transaction, error)

	// DeleteGoal removes a goal and its members. Transactions are kept.
	// Returns an error wrapping ErrNotFound if the goal does not exist.
	DeleteGoal(ctx context.Context, goalID string) error

	// Close releases any resources held by the store.
	Close() error
}
