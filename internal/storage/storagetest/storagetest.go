// Package storagetest runs the same behavioural checks against every
// storage.Store implementation.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/sharedgoals/internal/models"
	"github.com/mmynk/sharedgoals/internal/storage"
)

// NewStoreFunc returns a fresh, empty store. Cleanup is the caller's job
// (typically t.Cleanup).
type NewStoreFunc func(t *testing.T) storage.Store

// Run exercises a Store implementation.
func Run(t *testing.T, newStore NewStoreFunc) {
	ctx := context.Background()

	t.Run("CreateGoal generates ID and CreatedAt", func(t *testing.T) {
		store := newStore(t)
		goal := sampleGoal("")
		if err := store.CreateGoal(ctx, goal); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
		if goal.ID == "" {
			t.Error("Expected goal ID to be generated")
		}
		if goal.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetGoal retrieves complete goal", func(t *testing.T) {
		store := newStore(t)
		original := sampleGoal("g1")
		if err := store.CreateGoal(ctx, original); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}

		got, err := store.GetGoal(ctx, "g1")
		if err != nil {
			t.Fatalf("GetGoal failed: %v", err)
		}
		if got.Name != original.Name || got.TargetAmount != original.TargetAmount ||
			got.TotalSaved != original.TotalSaved || got.ChangesRemaining != original.ChangesRemaining ||
			got.TargetDate != original.TargetDate {
			t.Errorf("goal mismatch: got %+v, want %+v", got, original)
		}
		if len(got.Members) != 2 {
			t.Fatalf("Members count mismatch: got %d, want 2", len(got.Members))
		}
		if got.Members[0] != original.Members[0] || got.Members[1] != original.Members[1] {
			t.Errorf("members mismatch or out of order: got %+v", got.Members)
		}
	})

	t.Run("GetGoal returns ErrNotFound for nonexistent goal", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetGoal(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("returned goals are copies", func(t *testing.T) {
		store := newStore(t)
		if err := store.CreateGoal(ctx, sampleGoal("g1")); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
		got, _ := store.GetGoal(ctx, "g1")
		got.Members[0].Contribution = 1
		again, _ := store.GetGoal(ctx, "g1")
		if again.Members[0].Contribution != 18400 {
			t.Errorf("store state changed through a returned goal: %d", again.Members[0].Contribution)
		}
	})

	t.Run("ListGoals keeps creation order", func(t *testing.T) {
		store := newStore(t)
		for _, id := range []string{"b", "a", "c"} {
			g := sampleGoal(id)
			g.CreatedAt = 1700000000
			if err := store.CreateGoal(ctx, g); err != nil {
				t.Fatalf("CreateGoal(%s) failed: %v", id, err)
			}
		}
		goals, err := store.ListGoals(ctx)
		if err != nil {
			t.Fatalf("ListGoals failed: %v", err)
		}
		if len(goals) != 3 {
			t.Fatalf("expected 3 goals, got %d", len(goals))
		}
		for i, want := range []string{"b", "a", "c"} {
			if goals[i].ID != want {
				t.Errorf("goal %d: got %s, want %s", i, goals[i].ID, want)
			}
			if len(goals[i].Members) != 2 {
				t.Errorf("goal %s has %d members, want 2", goals[i].ID, len(goals[i].Members))
			}
		}
	})

	t.Run("UpdateGoal replaces fields and members", func(t *testing.T) {
		store := newStore(t)
		goal := sampleGoal("g1")
		if err := store.CreateGoal(ctx, goal); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
		goal.TargetAmount = 90000
		goal.ChangesRemaining = 1
		goal.SettlementPending = true
		goal.Members = append(goal.Members, models.Member{ID: "m3", Name: "Deklan", Role: models.RoleContributor})
		if err := store.UpdateGoal(ctx, goal); err != nil {
			t.Fatalf("UpdateGoal failed: %v", err)
		}

		got, err := store.GetGoal(ctx, "g1")
		if err != nil {
			t.Fatalf("GetGoal failed: %v", err)
		}
		if got.TargetAmount != 90000 || got.ChangesRemaining != 1 || !got.SettlementPending {
			t.Errorf("update not applied: %+v", got)
		}
		if len(got.Members) != 3 || got.Members[2].ID != "m3" {
			t.Errorf("members not replaced: %+v", got.Members)
		}
	})

	t.Run("UpdateGoal returns ErrNotFound for nonexistent goal", func(t *testing.T) {
		store := newStore(t)
		err := store.UpdateGoal(ctx, sampleGoal("missing"))
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RecordTransaction and ListTransactions newest first", func(t *testing.T) {
		store := newStore(t)
		goal := sampleGoal("g1")
		if err := store.CreateGoal(ctx, goal); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}

		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		amounts := []int64{500, 700, 900}
		for i, amount := range amounts {
			goal.Members[0].Contribution += amount
			goal.TotalSaved += amount
			tx := &models.Transaction{
				GoalID:     "g1",
				MemberID:   "m1",
				MemberName: "Jaeden",
				Amount:     amount,
				Type:       models.TransactionContribution,
				Date:       base.Add(time.Duration(i) * time.Minute),
			}
			if err := store.RecordTransaction(ctx, goal, tx); err != nil {
				t.Fatalf("RecordTransaction failed: %v", err)
			}
			if tx.ID == "" {
				t.Error("Expected transaction ID to be generated")
			}
		}

		txs, err := store.ListTransactions(ctx, "g1")
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(txs))
		}
		for i, want := range []int64{900, 700, 500} {
			if txs[i].Amount != want {
				t.Errorf("transaction %d: amount %d, want %d", i, txs[i].Amount, want)
			}
		}
		if !txs[0].Date.Equal(base.Add(2 * time.Minute)) {
			t.Errorf("date not preserved: %v", txs[0].Date)
		}

		got, _ := store.GetGoal(ctx, "g1")
		if got.TotalSaved != 32400+2100 || got.Members[0].Contribution != 18400+2100 {
			t.Errorf("goal balances not updated with transaction: %+v", got)
		}
	})

	t.Run("transactions with equal dates keep insertion order", func(t *testing.T) {
		store := newStore(t)
		goal := sampleGoal("g1")
		if err := store.CreateGoal(ctx, goal); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
		at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		for _, id := range []string{"t1", "t2"} {
			tx := &models.Transaction{ID: id, GoalID: "g1", MemberID: "m1", Amount: 1, Type: models.TransactionContribution, Date: at}
			if err := store.RecordTransaction(ctx, goal, tx); err != nil {
				t.Fatalf("RecordTransaction failed: %v", err)
			}
		}
		txs, _ := store.ListTransactions(ctx, "g1")
		if len(txs) != 2 || txs[0].ID != "t2" || txs[1].ID != "t1" {
			t.Errorf("expected t2 before t1, got %+v", txs)
		}
	})

	t.Run("DeleteGoal removes goal but keeps transactions", func(t *testing.T) {
		store := newStore(t)
		goal := sampleGoal("g1")
		if err := store.CreateGoal(ctx, goal); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
		tx := &models.Transaction{GoalID: "g1", MemberID: "m1", MemberName: "Jaeden", Amount: 100, Type: models.TransactionContribution, Date: time.Now()}
		if err := store.RecordTransaction(ctx, goal, tx); err != nil {
			t.Fatalf("RecordTransaction failed: %v", err)
		}

		if err := store.DeleteGoal(ctx, "g1"); err != nil {
			t.Fatalf("DeleteGoal failed: %v", err)
		}
		if _, err := store.GetGoal(ctx, "g1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		goals, _ := store.ListGoals(ctx)
		if len(goals) != 0 {
			t.Errorf("expected no goals after delete, got %d", len(goals))
		}
		txs, _ := store.ListTransactions(ctx, "g1")
		if len(txs) != 1 {
			t.Errorf("expected transactions to outlive the goal, got %d", len(txs))
		}

		if err := store.DeleteGoal(ctx, "g1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func sampleGoal(id string) *models.SharedGoal {
	return &models.SharedGoal{
		ID:               id,
		Name:             "Overseas Trip 2025",
		TargetDate:       "2025-10-12",
		TargetAmount:     85000,
		TotalSaved:       32400,
		ChangesRemaining: 2,
		Members: []models.Member{
			{ID: "m1", Name: "Jaeden", Initials: "J", Color: "bg-blue-500", Contribution: 18400, Role: models.RoleAdmin},
			{ID: "m2", Name: "Shanice", Initials: "S", Color: "bg-purple-500", Contribution: 14000, Role: models.RoleContributor},
		},
	}
}
