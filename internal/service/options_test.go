package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/middleware"
	"github.com/mmynk/sharedgoals/internal/models"
	"github.com/mmynk/sharedgoals/internal/navigation"
	"github.com/mmynk/sharedgoals/internal/storage/memory"
	"github.com/mmynk/sharedgoals/pkg/api"
)

func newLedger(t *testing.T, seed bool) *ledger.Ledger {
	t.Helper()

	l := ledger.New(memory.New(), ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if seed {
		if err := l.SeedDemo(context.Background()); err != nil {
			t.Fatalf("failed to seed ledger: %v", err)
		}
	}
	return l
}

func identity(memberID, sessionID string) context.Context {
	return middleware.WithIdentity(context.Background(), memberID, sessionID)
}

// settle deletes a goal so subscribed controllers move to accounts.
func settle(t *testing.T, l *ledger.Ledger, goalID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := l.RequestDeletion(ctx, goalID); err != nil {
		t.Fatalf("RequestDeletion failed: %v", err)
	}
	if _, err := l.ApproveSettlement(ctx, goalID); err != nil {
		t.Fatalf("ApproveSettlement failed: %v", err)
	}
}

func TestNavigationService_MaxSessions(t *testing.T) {
	l := newLedger(t, true)
	s := NewNavigationService(l, nil, WithMaxSessions(1))
	ctx := context.Background()

	first := s.session(identity("m1", "a"))
	if _, err := first.Navigate(ctx, navigation.GoalDetail{GoalID: "g1"}); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	second := s.session(identity("m2", "b"))
	if s.sessions.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", s.sessions.Len())
	}

	settle(t, l, "g2")

	// The dropped session no longer follows ledger events.
	if got, _ := first.Current(ctx); got != (navigation.GoalDetail{GoalID: "g1"}) {
		t.Errorf("evicted session moved to %#v", got)
	}
	if got, _ := second.Current(ctx); got != (navigation.Accounts{}) {
		t.Errorf("live session should follow the settlement, got %#v", got)
	}

	again := s.session(identity("m1", "a"))
	if again == first {
		t.Fatal("expected a fresh controller for a dropped session")
	}
	if got, _ := again.Current(ctx); got != (navigation.Home{}) {
		t.Errorf("fresh session should start at home, got %#v", got)
	}
}

func TestNavigationService_IdleSessionsExpire(t *testing.T) {
	l := newLedger(t, true)
	s := NewNavigationService(l, nil, WithSessionTTL(20*time.Millisecond))
	ctx := context.Background()

	first := s.session(identity("m1", "a"))
	if first != s.session(identity("m1", "a")) {
		t.Fatal("expected the same controller within the TTL")
	}
	if _, err := first.Navigate(ctx, navigation.GoalDetail{GoalID: "g1"}); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	again := s.session(identity("m1", "a"))
	if again == first {
		t.Fatal("expected the idle session to expire")
	}

	settle(t, l, "g2")
	if got, _ := first.Current(ctx); got != (navigation.GoalDetail{GoalID: "g1"}) {
		t.Errorf("expired session should be detached from the ledger, got %#v", got)
	}
}

func TestDefaultMember(t *testing.T) {
	l := newLedger(t, false)
	jaeden := models.Member{ID: "m1", Name: "Jaeden", Initials: "J"}

	goals := NewGoalService(l, nil, WithDefaultMember(jaeden))

	tests := []struct {
		name     string
		memberID string
		wantName string
	}{
		{"default member gets the configured profile", "m1", "Jaeden"},
		{"other members are named after their id", "m9", "m9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := goals.CreateGoal(identity(tt.memberID, tt.memberID), connect.NewRequest(&api.CreateGoalRequest{
				Name:         "Car",
				TargetAmount: 100000,
			}))
			if err != nil {
				t.Fatalf("CreateGoal failed: %v", err)
			}
			creator := resp.Msg.Goal.Members[0]
			if creator.ID != tt.memberID || creator.Name != tt.wantName {
				t.Errorf("creator = %s/%s, want %s/%s", creator.ID, creator.Name, tt.memberID, tt.wantName)
			}
		})
	}

	nav := NewNavigationService(l, nil, WithDefaultMember(jaeden))
	if owner := nav.session(identity("m1", "tab")).Owner(); owner.Name != "Jaeden" {
		t.Errorf("session owner = %q, want Jaeden", owner.Name)
	}
}
