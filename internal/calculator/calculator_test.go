package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/sharedgoals/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain digits", input: "10000", want: 10000},
		{name: "grouped with commas", input: "18,400", want: 18400},
		{name: "currency prefix and spaces", input: "R 1 250", want: 1250},
		{name: "negative sign is stripped", input: "-500", want: 500},
		{name: "decimal point is stripped", input: "12.50", want: 1250},
		{name: "no digits parses as zero", input: "abc", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "overflow", input: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrAmountTooLarge) {
					t.Errorf("expected ErrAmountTooLarge, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{18400, "18,400"},
		{1250000, "1,250,000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatAmount(tt.amount); got != tt.want {
				t.Errorf("FormatAmount(%d) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"Caleb Pillay":     "CP",
		"jaeden":           "J",
		"  Simeon   Smit ": "SS",
		"Anna Maria Lopez": "AM",
		"":                 "",
	}
	for name, want := range tests {
		if got := Initials(name); got != want {
			t.Errorf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}

func tripGoal() *models.SharedGoal {
	return &models.SharedGoal{
		ID:               "g1",
		Name:             "Overseas Trip 2025",
		TargetAmount:     85000,
		TotalSaved:       32400,
		ChangesRemaining: 2,
		Members: []models.Member{
			{ID: "m1", Name: "Jaeden", Contribution: 18400, Role: models.RoleAdmin},
			{ID: "m2", Name: "Shanice", Contribution: 14000, Role: models.RoleContributor},
		},
	}
}

func TestCheckBalances(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(g *models.SharedGoal)
		wantErr bool
	}{
		{name: "consistent goal", mutate: func(g *models.SharedGoal) {}},
		{
			name:    "total drifted from contributions",
			mutate:  func(g *models.SharedGoal) { g.TotalSaved = 32401 },
			wantErr: true,
		},
		{
			name: "negative contribution",
			mutate: func(g *models.SharedGoal) {
				g.Members[1].Contribution = -1
				g.TotalSaved = 18399
			},
			wantErr: true,
		},
		{
			name:    "negative quota",
			mutate:  func(g *models.SharedGoal) { g.ChangesRemaining = -1 },
			wantErr: true,
		},
		{
			name:    "duplicate member ids",
			mutate:  func(g *models.SharedGoal) { g.Members[1].ID = "m1" },
			wantErr: true,
		},
		{
			name: "contributions overflow",
			mutate: func(g *models.SharedGoal) {
				g.Members[0].Contribution = math.MaxInt64
				g.Members[1].Contribution = 10
				g.TotalSaved = math.MinInt64 + 9
			},
			wantErr: true,
		},
		{
			name: "no members",
			mutate: func(g *models.SharedGoal) {
				g.Members = nil
				g.TotalSaved = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tripGoal()
			tt.mutate(g)
			err := CheckBalances(g)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckBalances() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvariant) {
				t.Errorf("expected ErrInvariant, got %v", err)
			}
		})
	}
}

func TestProgressAndShares(t *testing.T) {
	g := tripGoal()

	if got := Progress(g).StringFixed(2); got != "38.12" {
		t.Errorf("Progress = %s, want 38.12", got)
	}

	shares := MemberShares(g)
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}
	// Jaeden: 18400/85000 = 21.65%, 18400/32400 = 56.79%
	if got := shares[0].OfTarget.StringFixed(2); got != "21.65" {
		t.Errorf("Jaeden of target = %s, want 21.65", got)
	}
	if got := shares[0].OfSaved.StringFixed(2); got != "56.79" {
		t.Errorf("Jaeden of saved = %s, want 56.79", got)
	}

	empty := &models.SharedGoal{TargetAmount: 50000, Members: []models.Member{{ID: "m1"}}}
	if !Progress(empty).IsZero() {
		t.Errorf("expected zero progress for empty goal, got %s", Progress(empty))
	}
	if !MemberShares(empty)[0].OfSaved.IsZero() {
		t.Error("share of an empty total should be zero, not a division error")
	}
}

func TestSettlementPayouts(t *testing.T) {
	g := tripGoal()
	g.Members = append(g.Members, models.Member{ID: "m3", Name: "Deklan"})

	payouts := SettlementPayouts(g)
	if len(payouts) != 2 {
		t.Fatalf("expected 2 payouts (zero contributors skipped), got %d", len(payouts))
	}

	var total int64
	for _, p := range payouts {
		total += p.Amount
	}
	if total != g.TotalSaved {
		t.Errorf("payouts sum to %d, want %d", total, g.TotalSaved)
	}
	if payouts[0].MemberID != "m1" || payouts[0].Amount != 18400 {
		t.Errorf("unexpected first payout: %+v", payouts[0])
	}
}
