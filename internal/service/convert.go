package service

import (
	"github.com/mmynk/sharedgoals/internal/calculator"
	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/models"
	"github.com/mmynk/sharedgoals/internal/navigation"
	"github.com/mmynk/sharedgoals/pkg/api"
)

func goalToAPI(goal *models.SharedGoal) *api.Goal {
	if goal == nil {
		return nil
	}
	members := make([]api.Member, len(goal.Members))
	for i, m := range goal.Members {
		members[i] = api.Member{
			ID:           m.ID,
			Name:         m.Name,
			Initials:     m.Initials,
			Color:        m.Color,
			Contribution: m.Contribution,
			Role:         string(m.Role),
		}
	}

	shares := calculator.MemberShares(goal)
	apiShares := make([]api.Share, len(shares))
	for i, s := range shares {
		apiShares[i] = api.Share{
			MemberID:   s.MemberID,
			MemberName: s.MemberName,
			OfTarget:   s.OfTarget.StringFixed(2),
			OfSaved:    s.OfSaved.StringFixed(2),
		}
	}

	return &api.Goal{
		ID:                goal.ID,
		Name:              goal.Name,
		TargetDate:        goal.TargetDate,
		TargetAmount:      goal.TargetAmount,
		TotalSaved:        goal.TotalSaved,
		ChangesRemaining:  goal.ChangesRemaining,
		Members:           members,
		SettlementPending: goal.SettlementPending,
		CreatedAt:         goal.CreatedAt,
		Progress:          calculator.Progress(goal).StringFixed(2),
		Shares:            apiShares,
		TotalDisplay:      calculator.FormatAmount(goal.TotalSaved),
	}
}

func memberFromAPI(m api.Member) models.Member {
	return models.Member{
		ID:       m.ID,
		Name:     m.Name,
		Initials: m.Initials,
		Color:    m.Color,
	}
}

func transactionToAPI(tx *models.Transaction) *api.Transaction {
	if tx == nil {
		return nil
	}
	return &api.Transaction{
		ID:         tx.ID,
		GoalID:     tx.GoalID,
		MemberID:   tx.MemberID,
		MemberName: tx.MemberName,
		Amount:     tx.Amount,
		Type:       string(tx.Type),
		Date:       tx.Date,
	}
}

func receiptToAPI(r *ledger.Receipt) *api.TransactionResponse {
	if r == nil {
		return nil
	}
	return &api.TransactionResponse{
		Goal:        goalToAPI(r.Goal),
		Transaction: transactionToAPI(r.Transaction),
	}
}

func settlementToAPI(s *models.Settlement) *api.Settlement {
	payouts := make([]api.Payout, len(s.Payouts))
	for i, p := range s.Payouts {
		payouts[i] = api.Payout{MemberID: p.MemberID, MemberName: p.MemberName, Amount: p.Amount}
	}
	out := &api.Settlement{
		GoalID:      s.GoalID,
		GoalName:    s.GoalName,
		Status:      string(s.Status),
		Payouts:     payouts,
		Total:       s.Total(),
		RequestedAt: s.RequestedAt,
	}
	if !s.ResolvedAt.IsZero() {
		resolved := s.ResolvedAt
		out.ResolvedAt = &resolved
	}
	return out
}

func screenToAPI(s navigation.Screen, selected string) *api.Screen {
	out := &api.Screen{Kind: string(s.Kind()), Selected: selected}
	if gs, ok := s.(navigation.GoalScreen); ok {
		out.GoalID = gs.Goal()
	}

	switch s := s.(type) {
	case navigation.CreateGoal:
		out.Step = s.Step
		out.Draft = &api.Draft{
			Name:         s.Draft.Name,
			TargetAmount: s.Draft.TargetAmount,
			TargetDate:   s.Draft.TargetDate,
		}
	case navigation.AddMoney:
		out.Receipt = receiptToAPI(s.Receipt)
	case navigation.Withdraw:
		out.Receipt = receiptToAPI(s.Receipt)
	}
	return out
}
