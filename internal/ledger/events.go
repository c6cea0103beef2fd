package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/mmynk/sharedgoals/internal/models"
)

// EventType names a committed ledger change.
type EventType string

const (
	EventGoalCreated         EventType = "goal_created"
	EventContributed         EventType = "contributed"
	EventWithdrew            EventType = "withdrew"
	EventTargetAdjusted      EventType = "target_adjusted"
	EventMemberInvited       EventType = "member_invited"
	EventSettlementRequested EventType = "settlement_requested"
	EventSettlementResolved  EventType = "settlement_resolved"
)

// Event describes a change after it has been committed to the store.
type Event struct {
	Type   EventType
	GoalID string

	// Goal is a snapshot after the change. Nil for EventSettlementResolved.
	Goal *models.SharedGoal

	// Transaction is set for EventContributed and EventWithdrew.
	Transaction *models.Transaction

	// Settlement is set for the two settlement events.
	Settlement *models.Settlement

	At time.Time
}

// Handler receives ledger events. Handlers run synchronously on the goroutine
// that made the change, after the ledger lock is released, so they may call
// back into the ledger.
type Handler func(ctx context.Context, ev Event)

// Subscribe registers a handler for all events. The returned func removes it.
func (l *Ledger) Subscribe(h Handler) (unsubscribe func()) {
	l.subsMu.Lock()
	defer l.subsMu.Unlock()

	id := l.nextSub
	l.nextSub++
	l.subs[id] = h

	return func() {
		l.subsMu.Lock()
		defer l.subsMu.Unlock()
		delete(l.subs, id)
	}
}

// emit delivers ev to all handlers in subscription order.
func (l *Ledger) emit(ctx context.Context, ev Event) {
	l.subsMu.Lock()
	ids := make([]int, 0, len(l.subs))
	for id := range l.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]Handler, len(ids))
	for i, id := range ids {
		handlers[i] = l.subs[id]
	}
	l.subsMu.Unlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}
