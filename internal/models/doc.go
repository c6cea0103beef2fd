// Package models defines the core domain models for shared savings goals.
//
// # Models
//
//   - SharedGoal: a savings target owned jointly by its members
//   - Member: one participant of a goal with a running contribution
//   - Transaction: immutable audit record of a contribution or withdrawal
//   - Settlement: the close-out of a goal that is being deleted
//
// # Design Principles
//
// 1. **Integer amounts**: all amounts are whole currency units (int64), the
// same unit the amount inputs accept
// 2. **Avoid circular references**: use ID strings instead of pointers for
// relationships (Transaction.GoalID, Payout.MemberID)
// 3. **Values, not handles**: the ledger hands out copies; use Clone before
// mutating a goal that is shared with a store
//
// # Lifecycle
//
// A goal is created with its creator as the only (admin) member, grows
// through invites, and is destroyed by a two-phase settlement: first marked
// pending, then removed once the settlement is approved. Transactions are
// append-only and outlive the goal they reference.
package models
