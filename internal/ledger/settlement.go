package ledger

import (
	"context"
	"fmt"

	"github.com/mmynk/sharedgoals/internal/calculator"
	"github.com/mmynk/sharedgoals/internal/models"
)

// RequestDeletion starts the two-phase close-out of a goal. The goal is
// marked settlement pending and stays listed; balances do not change and
// every other mutation is rejected until the settlement is approved.
//
// The returned settlement carries the projected payouts. Approval arrives
// later through ApproveSettlement.
func (l *Ledger) RequestDeletion(ctx context.Context, goalID string) (*models.Settlement, error) {
	l.mu.Lock()

	goal, err := l.loadMutable(ctx, goalID)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	goal.SettlementPending = true
	if err := l.store.UpdateGoal(ctx, goal); err != nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("failed to mark goal pending: %w", err)
	}

	settlement := &models.Settlement{
		GoalID:      goal.ID,
		GoalName:    goal.Name,
		Status:      models.SettlementPending,
		Payouts:     calculator.SettlementPayouts(goal),
		RequestedAt: l.now(),
	}
	l.pending[goal.ID] = settlement
	snapshot := cloneSettlement(settlement)
	l.mu.Unlock()

	l.logger.Info("Settlement requested",
		"goal_id", goal.ID,
		"payouts", len(settlement.Payouts),
		"total", settlement.Total(),
	)
	l.emit(ctx, Event{
		Type:       EventSettlementRequested,
		GoalID:     goal.ID,
		Goal:       goal.Clone(),
		Settlement: cloneSettlement(settlement),
		At:         settlement.RequestedAt,
	})
	return snapshot, nil
}

// ApproveSettlement is phase two: the counterparty agreed, every member's
// contribution is returned and the goal is removed. Only after this call is
// the deletion irreversible.
func (l *Ledger) ApproveSettlement(ctx context.Context, goalID string) (*models.Settlement, error) {
	l.mu.Lock()

	goal, err := l.Goal(ctx, goalID)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	if !goal.SettlementPending {
		l.mu.Unlock()
		return nil, fmt.Errorf("goal %s: %w", goalID, ErrNotPending)
	}
	if err := calculator.CheckBalances(goal); err != nil {
		l.mu.Unlock()
		return nil, err
	}

	settlement, ok := l.pending[goal.ID]
	if !ok {
		// Pending flag loaded from a store that outlived the ledger.
		settlement = &models.Settlement{GoalID: goal.ID, GoalName: goal.Name}
	}
	settlement.Payouts = calculator.SettlementPayouts(goal)
	settlement.Status = models.SettlementResolved
	settlement.ResolvedAt = l.now()

	if err := l.store.DeleteGoal(ctx, goal.ID); err != nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("failed to delete goal: %w", err)
	}
	delete(l.pending, goal.ID)
	l.mu.Unlock()

	l.logger.Info("Settlement resolved",
		"goal_id", goal.ID,
		"payouts", len(settlement.Payouts),
		"total", settlement.Total(),
	)
	l.emit(ctx, Event{
		Type:       EventSettlementResolved,
		GoalID:     goal.ID,
		Settlement: cloneSettlement(settlement),
		At:         settlement.ResolvedAt,
	})
	return settlement, nil
}

// ResumePending announces again every settlement the store still marks
// pending, so approval channels can pick them up after a restart. Payouts are
// recomputed and RequestedAt is the time of the call. Settlements this ledger
// already tracks are skipped. It returns the number of settlements resumed.
func (l *Ledger) ResumePending(ctx context.Context) (int, error) {
	l.mu.Lock()

	goals, err := l.store.ListGoals(ctx)
	if err != nil {
		l.mu.Unlock()
		return 0, fmt.Errorf("failed to list goals: %w", err)
	}

	var events []Event
	for _, goal := range goals {
		if !goal.SettlementPending {
			continue
		}
		if _, ok := l.pending[goal.ID]; ok {
			continue
		}
		settlement := &models.Settlement{
			GoalID:      goal.ID,
			GoalName:    goal.Name,
			Status:      models.SettlementPending,
			Payouts:     calculator.SettlementPayouts(goal),
			RequestedAt: l.now(),
		}
		l.pending[goal.ID] = settlement
		events = append(events, Event{
			Type:       EventSettlementRequested,
			GoalID:     goal.ID,
			Goal:       goal.Clone(),
			Settlement: cloneSettlement(settlement),
			At:         settlement.RequestedAt,
		})
	}
	l.mu.Unlock()

	for _, ev := range events {
		l.logger.Info("Settlement resumed", "goal_id", ev.GoalID, "total", ev.Settlement.Total())
		l.emit(ctx, ev)
	}
	return len(events), nil
}

// PendingSettlement returns the settlement awaiting approval for a goal.
func (l *Ledger) PendingSettlement(goalID string) (*models.Settlement, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.pending[goalID]
	if !ok {
		return nil, false
	}
	return cloneSettlement(s), true
}

func cloneSettlement(s *models.Settlement) *models.Settlement {
	c := *s
	c.Payouts = append([]models.Payout(nil), s.Payouts...)
	return &c
}
