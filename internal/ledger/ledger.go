// Package ledger owns shared goals and applies contributions, withdrawals,
// target adjustments, invites and two-phase deletions while keeping every
// goal's balances consistent.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharedgoals/internal/calculator"
	"github.com/mmynk/sharedgoals/internal/models"
	"github.com/mmynk/sharedgoals/internal/storage"
)

// Ledger applies goal operations on top of a storage.Store.
// It is safe for concurrent use; mutations are serialized.
type Ledger struct {
	mu      sync.Mutex
	store   storage.Store
	pending map[string]*models.Settlement

	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	subsMu  sync.Mutex
	subs    map[int]Handler
	nextSub int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for transaction and settlement dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides how goal, member and transaction IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New creates a Ledger backed by store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:   store,
		pending: make(map[string]*models.Settlement),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
		logger:  slog.Default(),
		subs:    make(map[int]Handler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// GoalSpec describes a goal to create.
type GoalSpec struct {
	Name         string
	TargetAmount int64
	TargetDate   string

	// Creator becomes the only member, with role admin and no contribution.
	Creator models.Member
}

// Receipt is the result of an accepted contribution or withdrawal.
type Receipt struct {
	Goal        *models.SharedGoal
	Transaction *models.Transaction
}

// CreateGoal creates a goal with the creator as sole admin member.
func (l *Ledger) CreateGoal(ctx context.Context, spec GoalSpec) (*models.SharedGoal, error) {
	if spec.TargetAmount <= 0 {
		return nil, fmt.Errorf("target %d: %w", spec.TargetAmount, ErrInvalidAmount)
	}

	creator := spec.Creator
	if creator.ID == "" {
		creator.ID = l.newID()
	}
	if creator.Initials == "" {
		creator.Initials = calculator.Initials(creator.Name)
	}
	creator.Contribution = 0
	creator.Role = models.RoleAdmin

	name := spec.Name
	if name == "" {
		name = models.DefaultGoalName
	}

	goal := &models.SharedGoal{
		ID:               l.newID(),
		Name:             name,
		TargetDate:       spec.TargetDate,
		TargetAmount:     spec.TargetAmount,
		ChangesRemaining: models.DefaultChangeQuota,
		Members:          []models.Member{creator},
		CreatedAt:        l.now().Unix(),
	}

	l.mu.Lock()
	err := l.insert(ctx, goal)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	l.logger.Info("Goal created", "goal_id", goal.ID, "name", goal.Name, "target", goal.TargetAmount)
	l.emit(ctx, Event{Type: EventGoalCreated, GoalID: goal.ID, Goal: goal.Clone(), At: l.now()})
	return goal, nil
}

// Restore loads a goal that already carries members and balances, such as
// demo fixtures. The goal must satisfy every ledger invariant.
func (l *Ledger) Restore(ctx context.Context, goal *models.SharedGoal) error {
	goal = goal.Clone()
	if goal.ID == "" {
		goal.ID = l.newID()
	}
	if goal.TargetAmount <= 0 {
		return fmt.Errorf("restore goal %s: target %d: %w", goal.ID, goal.TargetAmount, ErrInvalidAmount)
	}
	if goal.CreatedAt == 0 {
		goal.CreatedAt = l.now().Unix()
	}
	goal.SettlementPending = false

	l.mu.Lock()
	err := l.insert(ctx, goal)
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("restore goal %s: %w", goal.ID, err)
	}

	l.logger.Debug("Goal restored", "goal_id", goal.ID, "total_saved", goal.TotalSaved)
	l.emit(ctx, Event{Type: EventGoalCreated, GoalID: goal.ID, Goal: goal.Clone(), At: l.now()})
	return nil
}

// insert checks invariants and persists a new goal. Caller holds l.mu.
func (l *Ledger) insert(ctx context.Context, goal *models.SharedGoal) error {
	if err := calculator.CheckBalances(goal); err != nil {
		return err
	}
	if err := l.store.CreateGoal(ctx, goal); err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// Goal returns a snapshot of one goal.
func (l *Ledger) Goal(ctx context.Context, goalID string) (*models.SharedGoal, error) {
	goal, err := l.store.GetGoal(ctx, goalID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	return goal, nil
}

// ListGoals returns snapshots of all active goals in creation order.
// Goals with a pending settlement are still listed.
func (l *Ledger) ListGoals(ctx context.Context) ([]*models.SharedGoal, error) {
	goals, err := l.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// ListTransactions returns a goal's transactions, newest first. Every call
// returns a fresh slice.
func (l *Ledger) ListTransactions(ctx context.Context, goalID string) ([]*models.Transaction, error) {
	if _, err := l.Goal(ctx, goalID); err != nil {
		return nil, err
	}
	txs, err := l.store.ListTransactions(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// Contribute adds amount to the member's contribution and the goal total.
func (l *Ledger) Contribute(ctx context.Context, goalID, memberID string, amount int64) (*Receipt, error) {
	return l.move(ctx, goalID, memberID, amount, models.TransactionContribution)
}

// Withdraw takes amount out of the goal on behalf of a member. A member can
// never withdraw more than they personally contributed, whatever the total.
func (l *Ledger) Withdraw(ctx context.Context, goalID, memberID string, amount int64) (*Receipt, error) {
	return l.move(ctx, goalID, memberID, amount, models.TransactionWithdrawal)
}

func (l *Ledger) move(ctx context.Context, goalID, memberID string, amount int64, txType models.TransactionType) (*Receipt, error) {
	l.mu.Lock()

	goal, err := l.loadMutable(ctx, goalID)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	member := goal.Member(memberID)
	if member == nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("member %s in goal %s: %w", memberID, goalID, ErrNotFound)
	}
	if amount <= 0 {
		l.mu.Unlock()
		return nil, fmt.Errorf("%s of %d: %w", txType, amount, ErrInvalidAmount)
	}

	delta := amount
	if txType == models.TransactionContribution &&
		(amount > math.MaxInt64-member.Contribution || amount > math.MaxInt64-goal.TotalSaved) {
		l.mu.Unlock()
		return nil, fmt.Errorf("contribute %d to total %d: %w", amount, goal.TotalSaved, ErrInvalidAmount)
	}
	if txType == models.TransactionWithdrawal {
		if amount > member.Contribution {
			l.mu.Unlock()
			return nil, fmt.Errorf("withdraw %d with contribution %d: %w", amount, member.Contribution, ErrLimitExceeded)
		}
		delta = -amount
	}
	member.Contribution += delta
	goal.TotalSaved += delta

	tx := &models.Transaction{
		ID:         l.newID(),
		GoalID:     goal.ID,
		MemberID:   member.ID,
		MemberName: member.Name,
		Amount:     amount,
		Type:       txType,
		Date:       l.now(),
	}

	if err := calculator.CheckBalances(goal); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	if err := l.store.RecordTransaction(ctx, goal, tx); err != nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("failed to record %s: %w", txType, err)
	}
	l.mu.Unlock()

	l.logger.Info("Transaction recorded",
		"goal_id", goal.ID,
		"member_id", member.ID,
		"type", txType,
		"amount", amount,
		"total_saved", goal.TotalSaved,
	)

	evType := EventContributed
	if txType == models.TransactionWithdrawal {
		evType = EventWithdrew
	}
	txCopy := *tx
	l.emit(ctx, Event{Type: evType, GoalID: goal.ID, Goal: goal.Clone(), Transaction: &txCopy, At: tx.Date})

	return &Receipt{Goal: goal, Transaction: tx}, nil
}

// AdjustTarget changes the goal's target amount, spending one change from
// the quota. Balances are not touched.
func (l *Ledger) AdjustTarget(ctx context.Context, goalID string, newTarget int64) (*models.SharedGoal, error) {
	goal, err := l.update(ctx, goalID, func(goal *models.SharedGoal) error {
		if goal.ChangesRemaining <= 0 {
			return fmt.Errorf("goal %s: %w", goalID, ErrQuotaExhausted)
		}
		if newTarget <= 0 {
			return fmt.Errorf("target %d: %w", newTarget, ErrInvalidAmount)
		}
		goal.TargetAmount = newTarget
		goal.ChangesRemaining--
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Target adjusted",
		"goal_id", goal.ID,
		"target", goal.TargetAmount,
		"changes_remaining", goal.ChangesRemaining,
	)
	l.emit(ctx, Event{Type: EventTargetAdjusted, GoalID: goal.ID, Goal: goal.Clone(), At: l.now()})
	return goal, nil
}

// InviteMember adds a member with no contribution and role contributor.
// An empty member ID is generated.
func (l *Ledger) InviteMember(ctx context.Context, goalID string, member models.Member) (*models.SharedGoal, error) {
	if member.ID == "" {
		member.ID = l.newID()
	}
	if member.Initials == "" {
		member.Initials = calculator.Initials(member.Name)
	}
	member.Contribution = 0
	member.Role = models.RoleContributor

	goal, err := l.update(ctx, goalID, func(goal *models.SharedGoal) error {
		if goal.HasMember(member.ID) {
			return fmt.Errorf("member %s in goal %s: %w", member.ID, goalID, ErrDuplicateMember)
		}
		goal.Members = append(goal.Members, member)
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Member invited", "goal_id", goal.ID, "member_id", member.ID, "name", member.Name)
	l.emit(ctx, Event{Type: EventMemberInvited, GoalID: goal.ID, Goal: goal.Clone(), At: l.now()})
	return goal, nil
}

// update runs a mutation on a goal that is not pending settlement, checks the
// invariants and persists the result.
func (l *Ledger) update(ctx context.Context, goalID string, mutate func(*models.SharedGoal) error) (*models.SharedGoal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	goal, err := l.loadMutable(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := mutate(goal); err != nil {
		return nil, err
	}
	if err := calculator.CheckBalances(goal); err != nil {
		return nil, err
	}
	if err := l.store.UpdateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

// loadMutable fetches a goal that may be changed. Caller holds l.mu.
func (l *Ledger) loadMutable(ctx context.Context, goalID string) (*models.SharedGoal, error) {
	goal, err := l.Goal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.SettlementPending {
		return nil, fmt.Errorf("goal %s: %w", goalID, ErrGoalPendingSettlement)
	}
	return goal, nil
}
