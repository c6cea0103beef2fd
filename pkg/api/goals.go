package api

import "time"

type Member struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Initials     string `json:"initials,omitempty"`
	Color        string `json:"color,omitempty"`
	Contribution int64  `json:"contribution"`
	Role         string `json:"role,omitempty"`
}

// Share is a member's part of a goal as percentages with two decimals.
type Share struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	OfTarget   string `json:"of_target"`
	OfSaved    string `json:"of_saved"`
}

type Goal struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	TargetDate        string   `json:"target_date,omitempty"`
	TargetAmount      int64    `json:"target_amount"`
	TotalSaved        int64    `json:"total_saved"`
	ChangesRemaining  int      `json:"changes_remaining"`
	Members           []Member `json:"members"`
	SettlementPending bool     `json:"settlement_pending"`
	CreatedAt         int64    `json:"created_at"`

	// Display fields derived from the amounts.
	Progress     string  `json:"progress"`
	Shares       []Share `json:"shares"`
	TotalDisplay string  `json:"total_display"`
}

type Transaction struct {
	ID         string    `json:"id"`
	GoalID     string    `json:"goal_id"`
	MemberID   string    `json:"member_id"`
	MemberName string    `json:"member_name"`
	Amount     int64     `json:"amount"`
	Type       string    `json:"type"`
	Date       time.Time `json:"date"`
}

type Payout struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Amount     int64  `json:"amount"`
}

type Settlement struct {
	GoalID      string     `json:"goal_id"`
	GoalName    string     `json:"goal_name"`
	Status      string     `json:"status"`
	Payouts     []Payout   `json:"payouts"`
	Total       int64      `json:"total"`
	RequestedAt time.Time  `json:"requested_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// CreateGoalRequest creates a goal with the calling member as admin.
type CreateGoalRequest struct {
	Name         string `json:"name"`
	TargetAmount int64  `json:"target_amount"`
	TargetDate   string `json:"target_date,omitempty"`
	CreatorName  string `json:"creator_name,omitempty"`
}

type GoalRequest struct {
	GoalID string `json:"goal_id"`
}

type GoalResponse struct {
	Goal *Goal `json:"goal"`
}

type ListGoalsResponse struct {
	Goals []*Goal `json:"goals"`
}

// AmountRequest moves money for MemberID, or for the calling member when empty.
type AmountRequest struct {
	GoalID   string `json:"goal_id"`
	MemberID string `json:"member_id,omitempty"`
	Amount   int64  `json:"amount"`
}

type TransactionResponse struct {
	Goal        *Goal        `json:"goal"`
	Transaction *Transaction `json:"transaction"`
}

type AdjustTargetRequest struct {
	GoalID       string `json:"goal_id"`
	TargetAmount int64  `json:"target_amount"`
}

type InviteMemberRequest struct {
	GoalID string `json:"goal_id"`
	Member Member `json:"member"`
}

type SettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}
