// Package memory provides a map-backed implementation of storage.Store.
// It is the default backend: state lives for the life of the process.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharedgoals/internal/models"
	"github.com/mmynk/sharedgoals/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps goals and transactions in memory.
type Store struct {
	mu    sync.Mutex
	goals map[string]*models.SharedGoal
	order []string // goal IDs in creation order
	txs   []*models.Transaction
}

// New creates an empty Store.
func New() *Store {
	return &Store{goals: make(map[string]*models.SharedGoal)}
}

// CreateGoal stores a copy of the goal, generating ID and CreatedAt if unset.
func (s *Store) CreateGoal(_ context.Context, goal *models.SharedGoal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt == 0 {
		goal.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.goals[goal.ID]; exists {
		return fmt.Errorf("goal already exists: %s", goal.ID)
	}
	s.goals[goal.ID] = goal.Clone()
	s.order = append(s.order, goal.ID)
	return nil
}

// GetGoal returns a copy of the goal.
func (s *Store) GetGoal(_ context.Context, goalID string) (*models.SharedGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[goalID]
	if !ok {
		return nil, fmt.Errorf("goal %s: %w", goalID, storage.ErrNotFound)
	}
	return goal.Clone(), nil
}

// ListGoals returns copies of all goals in creation order.
func (s *Store) ListGoals(_ context.Context) ([]*models.SharedGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := make([]*models.SharedGoal, 0, len(s.order))
	for _, id := range s.order {
		goals = append(goals, s.goals[id].Clone())
	}
	return goals, nil
}

// UpdateGoal replaces the stored goal with a copy of the given one.
func (s *Store) UpdateGoal(_ context.Context, goal *models.SharedGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[goal.ID]; !ok {
		return fmt.Errorf("goal %s: %w", goal.ID, storage.ErrNotFound)
	}
	s.goals[goal.ID] = goal.Clone()
	return nil
}

// RecordTransaction updates the goal and appends the transaction under one lock.
func (s *Store) RecordTransaction(_ context.Context, goal *models.SharedGoal, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[goal.ID]; !ok {
		return fmt.Errorf("goal %s: %w", goal.ID, storage.ErrNotFound)
	}
	s.goals[goal.ID] = goal.Clone()
	stored := *tx
	s.txs = append(s.txs, &stored)
	return nil
}

// ListTransactions returns copies of a goal's transactions, newest first.
func (s *Store) ListTransactions(_ context.Context, goalID string) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []*models.Transaction
	for i := len(s.txs) - 1; i >= 0; i-- {
		if s.txs[i].GoalID != goalID {
			continue
		}
		tx := *s.txs[i]
		txs = append(txs, &tx)
	}
	return txs, nil
}

// DeleteGoal removes the goal. Its transactions stay in the log.
func (s *Store) DeleteGoal(_ context.Context, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[goalID]; !ok {
		return fmt.Errorf("goal %s: %w", goalID, storage.ErrNotFound)
	}
	delete(s.goals, goalID)
	for i, id := range s.order {
		if id == goalID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
