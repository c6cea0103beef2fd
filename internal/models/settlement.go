package models

import "time"

// SettlementStatus tracks the two phases of a goal deletion.
type SettlementStatus string

const (
	SettlementPending  SettlementStatus = "pending"
	SettlementResolved SettlementStatus = "resolved"
)

// Settlement represents the close-out of a shared goal: every member's
// contribution is returned and the goal is removed.
type Settlement struct {
	// GoalID is the goal being settled.
	GoalID string

	// GoalName is kept so the settlement stays readable after the goal is gone.
	GoalName string

	Status SettlementStatus

	// Payouts lists what each member gets back. Members with no contribution
	// are omitted. The amounts sum to the goal's TotalSaved.
	Payouts []Payout

	RequestedAt time.Time

	// ResolvedAt is zero while the settlement is pending.
	ResolvedAt time.Time
}

// Total returns the sum of all payouts.
func (s *Settlement) Total() int64 {
	var total int64
	for _, p := range s.Payouts {
		total += p.Amount
	}
	return total
}

// Payout is the amount returned to one member when a goal is settled.
type Payout struct {
	MemberID   string
	MemberName string
	Amount     int64
}
