package models

import "time"

// TransactionType distinguishes money going into a goal from money leaving it.
type TransactionType string

const (
	TransactionContribution TransactionType = "contribution"
	TransactionWithdrawal   TransactionType = "withdrawal"
)

// Transaction is an immutable audit record, created exactly once per accepted
// contribution or withdrawal.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// GoalID is the goal this transaction belongs to.
	GoalID string

	// MemberID and MemberName identify who moved the money. The name is
	// captured at creation time.
	MemberID   string
	MemberName string

	// Amount is always positive; Type carries the direction.
	Amount int64

	Type TransactionType

	Date time.Time
}

// Signed returns the amount with the sign of its effect on the goal balance.
func (t *Transaction) Signed() int64 {
	if t.Type == TransactionWithdrawal {
		return -t.Amount
	}
	return t.Amount
}
