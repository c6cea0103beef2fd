package ledger

import (
	"context"

	"github.com/mmynk/sharedgoals/internal/models"
)

// DemoGoals returns the two goals the app ships with in demo mode.
func DemoGoals() []*models.SharedGoal {
	return []*models.SharedGoal{
		{
			ID:               "g1",
			Name:             "Overseas Trip 2025",
			TargetAmount:     85000,
			TargetDate:       "2025-10-12",
			ChangesRemaining: 2,
			TotalSaved:       32400,
			Members: []models.Member{
				{ID: "m1", Name: "Jaeden", Initials: "J", Contribution: 18400, Role: models.RoleAdmin, Color: "bg-blue-500"},
				{ID: "m2", Name: "Shanice", Initials: "S", Contribution: 14000, Role: models.RoleContributor, Color: "bg-purple-500"},
			},
		},
		{
			ID:               "g2",
			Name:             "Emergency Buffer",
			TargetAmount:     50000,
			ChangesRemaining: 3,
			TotalSaved:       12500,
			Members: []models.Member{
				{ID: "m1", Name: "Jaeden", Initials: "J", Contribution: 7500, Role: models.RoleAdmin, Color: "bg-blue-500"},
				{ID: "m3", Name: "Deklan", Initials: "D", Contribution: 5000, Role: models.RoleContributor, Color: "bg-orange-500"},
			},
		},
	}
}

// SeedDemo restores DemoGoals into the ledger.
func (l *Ledger) SeedDemo(ctx context.Context) error {
	for _, g := range DemoGoals() {
		if err := l.Restore(ctx, g); err != nil {
			return err
		}
	}
	return nil
}
