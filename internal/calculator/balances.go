// Package calculator holds the pure arithmetic behind shared goals: amount
// parsing, balance invariants, progress percentages and settlement payouts.
package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/sharedgoals/internal/models"
)

// ErrInvariant is returned by CheckBalances when a goal's numbers are inconsistent.
var ErrInvariant = errors.New("goal invariant violated")

// MemberShare is one member's part of a goal, as shown on the goal detail bars.
type MemberShare struct {
	MemberID     string
	MemberName   string
	Contribution int64
	OfTarget     decimal.Decimal // Percent of the target amount
	OfSaved      decimal.Decimal // Percent of the total saved
}

// SumContributions adds up the contributions of all members.
func SumContributions(members []models.Member) int64 {
	var sum int64
	for _, m := range members {
		sum += m.Contribution
	}
	return sum
}

// CheckBalances verifies the invariants every goal must satisfy:
//   - TotalSaved equals the sum of member contributions
//   - no contribution is negative
//   - ChangesRemaining is not negative
//   - member IDs are unique and there is at least one member
func CheckBalances(goal *models.SharedGoal) error {
	if len(goal.Members) == 0 {
		return fmt.Errorf("%w: goal %s has no members", ErrInvariant, goal.ID)
	}
	seen := make(map[string]bool, len(goal.Members))
	for _, m := range goal.Members {
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate member %s", ErrInvariant, m.ID)
		}
		seen[m.ID] = true
		if m.Contribution < 0 {
			return fmt.Errorf("%w: member %s has negative contribution %d", ErrInvariant, m.ID, m.Contribution)
		}
	}
	var sum int64
	for _, m := range goal.Members {
		if m.Contribution > math.MaxInt64-sum {
			return fmt.Errorf("%w: contributions overflow", ErrInvariant)
		}
		sum += m.Contribution
	}
	if sum != goal.TotalSaved {
		return fmt.Errorf("%w: total saved %d != sum of contributions %d", ErrInvariant, goal.TotalSaved, sum)
	}
	if goal.ChangesRemaining < 0 {
		return fmt.Errorf("%w: changes remaining %d", ErrInvariant, goal.ChangesRemaining)
	}
	return nil
}

// Percent returns part/whole as a percentage rounded to two decimals.
// A non-positive whole yields zero.
func Percent(part, whole int64) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(whole)).
		Round(2)
}

// Progress returns how far a goal is towards its target, in percent.
// It can exceed 100 when the goal is overfunded.
func Progress(goal *models.SharedGoal) decimal.Decimal {
	return Percent(goal.TotalSaved, goal.TargetAmount)
}

// MemberShares computes each member's share of the target and of the total
// saved, in member order.
func MemberShares(goal *models.SharedGoal) []MemberShare {
	shares := make([]MemberShare, len(goal.Members))
	for i, m := range goal.Members {
		shares[i] = MemberShare{
			MemberID:     m.ID,
			MemberName:   m.Name,
			Contribution: m.Contribution,
			OfTarget:     Percent(m.Contribution, goal.TargetAmount),
			OfSaved:      Percent(m.Contribution, goal.TotalSaved),
		}
	}
	return shares
}

// SettlementPayouts returns what each member gets back when the goal is
// settled: exactly their own contribution. Members who contributed nothing
// are skipped, so the payouts always sum to TotalSaved.
func SettlementPayouts(goal *models.SharedGoal) []models.Payout {
	var payouts []models.Payout
	for _, m := range goal.Members {
		if m.Contribution == 0 {
			continue
		}
		payouts = append(payouts, models.Payout{
			MemberID:   m.ID,
			MemberName: m.Name,
			Amount:     m.Contribution,
		})
	}
	return payouts
}
