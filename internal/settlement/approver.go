// Package settlement approves pending goal settlements on behalf of the
// counterparty when no real approval channel is configured.
package settlement

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/models"
)

// DefaultDelay matches the approval delay of the hosted app.
const DefaultDelay = 4500 * time.Millisecond

// Approver resolves a pending settlement.
type Approver interface {
	ApproveSettlement(ctx context.Context, goalID string) (*models.Settlement, error)
}

// Timer is the part of *time.Timer the approver uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DelayedApprover approves every requested settlement after a fixed delay.
// It keeps at most one timer per goal.
type DelayedApprover struct {
	approver  Approver
	delay     time.Duration
	afterFunc AfterFunc
	logger    *slog.Logger

	mu     sync.Mutex
	timers map[string]Timer
	closed bool
}

// Option configures a DelayedApprover.
type Option func(*DelayedApprover)

// WithAfterFunc replaces time.AfterFunc, letting tests fire timers by hand.
func WithAfterFunc(fn AfterFunc) Option {
	return func(a *DelayedApprover) { a.afterFunc = fn }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *DelayedApprover) { a.logger = logger }
}

// NewDelayedApprover creates an approver. A non-positive delay uses DefaultDelay.
func NewDelayedApprover(approver Approver, delay time.Duration, opts ...Option) *DelayedApprover {
	if delay <= 0 {
		delay = DefaultDelay
	}
	a := &DelayedApprover{
		approver:  approver,
		delay:     delay,
		afterFunc: realAfterFunc,
		logger:    slog.Default(),
		timers:    make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleEvent is a ledger.Handler. It schedules approval when a settlement
// is requested and forgets the timer once the settlement is resolved by any
// channel.
func (a *DelayedApprover) HandleEvent(ctx context.Context, ev ledger.Event) {
	switch ev.Type {
	case ledger.EventSettlementRequested:
		a.Schedule(context.WithoutCancel(ctx), ev.GoalID)
	case ledger.EventSettlementResolved:
		a.cancel(ev.GoalID)
	}
}

// Schedule arms the approval timer for a goal. A goal that already has a
// timer keeps it.
func (a *DelayedApprover) Schedule(ctx context.Context, goalID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	if _, ok := a.timers[goalID]; ok {
		return
	}
	a.timers[goalID] = a.afterFunc(a.delay, func() { a.fire(ctx, goalID) })
	a.logger.Debug("Settlement approval scheduled", "goal_id", goalID, "delay", a.delay)
}

func (a *DelayedApprover) fire(ctx context.Context, goalID string) {
	a.mu.Lock()
	_, ok := a.timers[goalID]
	delete(a.timers, goalID)
	a.mu.Unlock()
	if !ok {
		return
	}

	if _, err := a.approver.ApproveSettlement(ctx, goalID); err != nil {
		a.logger.Warn("Settlement approval failed", "goal_id", goalID, "error", err)
		return
	}
	a.logger.Info("Settlement approved", "goal_id", goalID, "channel", "timer")
}

func (a *DelayedApprover) cancel(goalID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t, ok := a.timers[goalID]; ok {
		t.Stop()
		delete(a.timers, goalID)
	}
}

// Pending returns the number of armed timers.
func (a *DelayedApprover) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.timers)
}

// Stop cancels all armed timers. Settlements stay pending.
func (a *DelayedApprover) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for id, t := range a.timers {
		t.Stop()
		delete(a.timers, id)
	}
	a.closed = true
}
