package navigation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/models"
	"github.com/mmynk/sharedgoals/internal/storage/memory"
)

var jaeden = models.Member{ID: "m1", Name: "Jaeden", Initials: "J", Color: "bg-blue-500"}

func setupController(t *testing.T) (*Controller, *ledger.Ledger) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := ledger.New(memory.New(), ledger.WithLogger(logger))
	if err := l.SeedDemo(context.Background()); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}

	c := NewController(l, jaeden, logger)
	l.Subscribe(c.HandleEvent)
	return c, l
}

func mustNavigate(t *testing.T, c *Controller, s Screen) {
	t.Helper()
	if _, err := c.Navigate(context.Background(), s); err != nil {
		t.Fatalf("Navigate(%s) failed: %v", s.Kind(), err)
	}
}

func current(t *testing.T, c *Controller) Screen {
	t.Helper()
	s, err := c.Current(context.Background())
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	return s
}

func TestController_StartsAtHome(t *testing.T) {
	c, _ := setupController(t)

	if got := current(t, c); got != (Home{}) {
		t.Errorf("expected home, got %s", got.Kind())
	}
	if c.Selected() != "" {
		t.Errorf("expected no selection, got %q", c.Selected())
	}
}

func TestNavigate_GoalScreens(t *testing.T) {
	c, _ := setupController(t)
	ctx := context.Background()

	mustNavigate(t, c, GoalDetail{GoalID: "g1"})
	if c.Selected() != "g1" {
		t.Errorf("expected g1 selected, got %q", c.Selected())
	}

	// Screens of the same goal are reachable from each other.
	for _, s := range []Screen{History{GoalID: "g1"}, Invite{GoalID: "g1"}, AddMoney{GoalID: "g1"}} {
		if _, err := c.Navigate(ctx, s); err != nil {
			t.Errorf("Navigate(%s) failed: %v", s.Kind(), err)
		}
	}

	_, err := c.Navigate(ctx, GoalDetail{GoalID: "missing"})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if got := current(t, c); got.Kind() != KindAddMoney {
		t.Errorf("failed navigation changed screen to %s", got.Kind())
	}
}

func TestNavigate_NoDirectGoalSwitch(t *testing.T) {
	c, _ := setupController(t)
	ctx := context.Background()

	mustNavigate(t, c, GoalDetail{GoalID: "g1"})

	_, err := c.Navigate(ctx, GoalDetail{GoalID: "g2"})
	if !errors.Is(err, ErrDirectGoalSwitch) {
		t.Fatalf("expected ErrDirectGoalSwitch, got %v", err)
	}
	if c.Selected() != "g1" {
		t.Errorf("selection changed by rejected switch: %q", c.Selected())
	}

	tests := []struct {
		name string
		via  Screen
	}{
		{"via accounts", Accounts{}},
		{"via home", Home{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustNavigate(t, c, GoalDetail{GoalID: "g1"})
			mustNavigate(t, c, tt.via)
			mustNavigate(t, c, Withdraw{GoalID: "g2"})
			if c.Selected() != "g2" {
				t.Errorf("expected g2 selected, got %q", c.Selected())
			}
			mustNavigate(t, c, tt.via)
		})
	}

	detours := []struct {
		name string
		via  Screen
	}{
		{"via transactions tab", Transactions{}},
		{"via automation tab", Automation{}},
		{"via account type", AccountTypeSelect{}},
		{"via create goal", CreateGoal{}},
	}
	for _, tt := range detours {
		t.Run(tt.name, func(t *testing.T) {
			mustNavigate(t, c, Accounts{})
			mustNavigate(t, c, AddMoney{GoalID: "g1"})
			mustNavigate(t, c, tt.via)

			_, err := c.Navigate(ctx, Withdraw{GoalID: "g2"})
			if !errors.Is(err, ErrDirectGoalSwitch) {
				t.Fatalf("expected ErrDirectGoalSwitch, got %v", err)
			}
			if got := current(t, c); got.Kind() != tt.via.Kind() {
				t.Errorf("rejected switch moved to %s", got.Kind())
			}
			mustNavigate(t, c, GoalDetail{GoalID: "g1"})
		})
	}
}

func TestBack(t *testing.T) {
	tests := []struct {
		name string
		from Screen
		want Screen
	}{
		{"home stays home", Home{}, Home{}},
		{"accounts to home", Accounts{}, Home{}},
		{"transactions tab to home", Transactions{}, Home{}},
		{"automation tab to home", Automation{}, Home{}},
		{"account type to accounts", AccountTypeSelect{}, Accounts{}},
		{"goal detail to accounts", GoalDetail{GoalID: "g1"}, Accounts{}},
		{"invite to goal detail", Invite{GoalID: "g1"}, GoalDetail{GoalID: "g1"}},
		{"add money to goal detail", AddMoney{GoalID: "g1"}, GoalDetail{GoalID: "g1"}},
		{"withdraw to goal detail", Withdraw{GoalID: "g2"}, GoalDetail{GoalID: "g2"}},
		{"history to goal detail", History{GoalID: "g2"}, GoalDetail{GoalID: "g2"}},
		{"wizard step 1 cancels", CreateGoal{}, Accounts{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setupController(t)
			mustNavigate(t, c, tt.from)

			got, err := c.Back(context.Background())
			if err != nil {
				t.Fatalf("Back failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestCreateGoalWizard(t *testing.T) {
	c, l := setupController(t)
	ctx := context.Background()

	mustNavigate(t, c, AccountTypeSelect{})

	if _, err := c.SelectAccountType("savings"); !errors.Is(err, ErrUnsupportedAccountType) {
		t.Errorf("expected ErrUnsupportedAccountType, got %v", err)
	}
	s, err := c.SelectAccountType(AccountTypeShared)
	if err != nil {
		t.Fatalf("SelectAccountType failed: %v", err)
	}
	if s != (CreateGoal{Step: 1}) {
		t.Fatalf("expected wizard step 1, got %#v", s)
	}

	c.SetDraftName("Wedding Fund")
	if s, _ = c.Next(ctx); s.(CreateGoal).Step != 2 {
		t.Fatalf("expected step 2, got %#v", s)
	}

	if _, err := c.Next(ctx); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Errorf("leaving amount step without target: expected ErrInvalidAmount, got %v", err)
	}

	s, err = c.SetDraftTarget("R 50,000")
	if err != nil {
		t.Fatalf("SetDraftTarget failed: %v", err)
	}
	if got := s.(CreateGoal).Draft.TargetAmount; got != 50000 {
		t.Errorf("sanitized target: expected 50000, got %d", got)
	}
	c.SetDraftDate("2026-06-01")

	s, _ = c.Next(ctx)
	if s.(CreateGoal).Step != 3 {
		t.Fatalf("expected review step, got %#v", s)
	}

	// Back from review keeps the draft.
	s, _ = c.Back(ctx)
	if cg := s.(CreateGoal); cg.Step != 2 || cg.Draft.Name != "Wedding Fund" {
		t.Errorf("back from review: got %#v", cg)
	}
	c.Next(ctx)

	s, err = c.Next(ctx)
	if err != nil {
		t.Fatalf("creating goal failed: %v", err)
	}
	if s != (Accounts{}) {
		t.Errorf("expected accounts after creation, got %s", s.Kind())
	}

	goals, _ := l.ListGoals(ctx)
	if len(goals) != 3 {
		t.Fatalf("expected 3 goals, got %d", len(goals))
	}
	created := goals[2]
	if created.Name != "Wedding Fund" || created.TargetAmount != 50000 || created.TargetDate != "2026-06-01" {
		t.Errorf("unexpected goal: %+v", created)
	}
	if created.ChangesRemaining != 3 {
		t.Errorf("changes remaining: expected 3, got %d", created.ChangesRemaining)
	}
	if len(created.Members) != 1 || created.Members[0].ID != "m1" || created.Members[0].Role != models.RoleAdmin {
		t.Errorf("session owner should be sole admin: %+v", created.Members)
	}
}

func TestCreateGoalWizard_AlwaysStartsAtStepOne(t *testing.T) {
	c, _ := setupController(t)

	s, err := c.Navigate(context.Background(), CreateGoal{Step: 3, Draft: Draft{Name: "x", TargetAmount: 1}})
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if s != (CreateGoal{Step: 1}) {
		t.Errorf("expected empty step 1, got %#v", s)
	}

	if _, err := c.SetDraftName("x"); err != nil {
		t.Fatalf("SetDraftName failed: %v", err)
	}
	mustNavigate(t, c, Home{})
	if _, err := c.SetDraftName("y"); !errors.Is(err, ErrWrongScreen) {
		t.Errorf("expected ErrWrongScreen, got %v", err)
	}
	if _, err := c.Next(context.Background()); !errors.Is(err, ErrWrongScreen) {
		t.Errorf("expected ErrWrongScreen, got %v", err)
	}
}

func TestSubmitAmount(t *testing.T) {
	c, l := setupController(t)
	ctx := context.Background()

	mustNavigate(t, c, AddMoney{GoalID: "g1"})
	receipt, err := c.SubmitAmount(ctx, "1,000")
	if err != nil {
		t.Fatalf("SubmitAmount failed: %v", err)
	}
	if receipt.Goal.TotalSaved != 33400 {
		t.Errorf("total saved: expected 33400, got %d", receipt.Goal.TotalSaved)
	}
	if s := current(t, c).(AddMoney); s.Receipt == nil || s.Receipt.Transaction.Amount != 1000 {
		t.Errorf("expected receipt on screen, got %#v", s)
	}

	if _, err := c.SubmitAmount(ctx, "abc"); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for empty amount, got %v", err)
	}

	s, err := c.Done(ctx)
	if err != nil {
		t.Fatalf("Done failed: %v", err)
	}
	if s != (GoalDetail{GoalID: "g1"}) {
		t.Errorf("expected goal detail, got %#v", s)
	}

	// Scenario: Jaeden has 19400 after the contribution above.
	mustNavigate(t, c, Withdraw{GoalID: "g1"})
	if _, err := c.SubmitAmount(ctx, "20000"); !errors.Is(err, ledger.ErrLimitExceeded) {
		t.Errorf("expected ErrLimitExceeded, got %v", err)
	}
	if s := current(t, c).(Withdraw); s.Receipt != nil {
		t.Error("rejected withdrawal should leave screen unchanged")
	}
	receipt, err = c.SubmitAmount(ctx, "11 000")
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if receipt.Goal.Member("m1").Contribution != 8400 || receipt.Goal.TotalSaved != 22400 {
		t.Errorf("unexpected balances: %+v", receipt.Goal)
	}

	goal, _ := l.Goal(ctx, "g1")
	if goal.TotalSaved != 22400 {
		t.Errorf("ledger total: expected 22400, got %d", goal.TotalSaved)
	}

	mustNavigate(t, c, Accounts{})
	if _, err := c.SubmitAmount(ctx, "5"); !errors.Is(err, ErrWrongScreen) {
		t.Errorf("expected ErrWrongScreen, got %v", err)
	}
	if _, err := c.Done(ctx); !errors.Is(err, ErrWrongScreen) {
		t.Errorf("expected ErrWrongScreen, got %v", err)
	}
}

func TestGoalDetailActions(t *testing.T) {
	c, _ := setupController(t)
	ctx := context.Background()

	if _, err := c.AdjustTarget(ctx, "90000"); !errors.Is(err, ErrWrongScreen) {
		t.Errorf("expected ErrWrongScreen, got %v", err)
	}

	mustNavigate(t, c, GoalDetail{GoalID: "g1"})
	goal, err := c.AdjustTarget(ctx, "90 000")
	if err != nil {
		t.Fatalf("AdjustTarget failed: %v", err)
	}
	if goal.TargetAmount != 90000 || goal.ChangesRemaining != 1 {
		t.Errorf("unexpected goal after adjustment: %+v", goal)
	}

	mustNavigate(t, c, Invite{GoalID: "g1"})
	goal, err = c.Invite(ctx, models.Member{ID: "m3", Name: "Deklan"})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	if len(goal.Members) != 3 {
		t.Errorf("expected 3 members, got %d", len(goal.Members))
	}
	if s := current(t, c); s != (GoalDetail{GoalID: "g1"}) {
		t.Errorf("expected goal detail after invite, got %#v", s)
	}

	mustNavigate(t, c, Invite{GoalID: "g1"})
	if _, err := c.Invite(ctx, models.Member{ID: "m3", Name: "Deklan"}); !errors.Is(err, ledger.ErrDuplicateMember) {
		t.Errorf("expected ErrDuplicateMember, got %v", err)
	}
	if s := current(t, c); s.Kind() != KindInvite {
		t.Errorf("failed invite should stay on invite, got %s", s.Kind())
	}
}

func TestDeletion_LeavesGoalOnlyAfterResolution(t *testing.T) {
	c, l := setupController(t)
	ctx := context.Background()

	mustNavigate(t, c, GoalDetail{GoalID: "g1"})
	if _, err := c.RequestDeletion(ctx); err != nil {
		t.Fatalf("RequestDeletion failed: %v", err)
	}

	if s := current(t, c); s != (GoalDetail{GoalID: "g1"}) {
		t.Fatalf("pending deletion should not leave the goal, got %#v", s)
	}
	mustNavigate(t, c, History{GoalID: "g1"})

	if _, err := l.ApproveSettlement(ctx, "g1"); err != nil {
		t.Fatalf("ApproveSettlement failed: %v", err)
	}

	if s := current(t, c); s != (Accounts{}) {
		t.Errorf("expected accounts after resolution, got %#v", s)
	}
	if c.Selected() != "" {
		t.Errorf("expected selection cleared, got %q", c.Selected())
	}
	if _, err := c.Navigate(ctx, GoalDetail{GoalID: "g1"}); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected ErrNotFound for settled goal, got %v", err)
	}
}

func TestDeletion_OfOtherGoalStillForcesAccounts(t *testing.T) {
	c, l := setupController(t)
	ctx := context.Background()

	mustNavigate(t, c, GoalDetail{GoalID: "g2"})
	l.RequestDeletion(ctx, "g1")
	l.ApproveSettlement(ctx, "g1")

	if s := current(t, c); s != (Accounts{}) {
		t.Errorf("expected accounts, got %#v", s)
	}
	if c.Selected() != "g2" {
		t.Errorf("selection of another goal should be kept, got %q", c.Selected())
	}
}

func TestCurrent_GoalDeletedWithoutEvent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := ledger.New(memory.New(), ledger.WithLogger(logger))
	l.SeedDemo(context.Background())
	c := NewController(l, jaeden, logger) // not subscribed
	ctx := context.Background()

	mustNavigate(t, c, AddMoney{GoalID: "g2"})
	l.RequestDeletion(ctx, "g2")
	l.ApproveSettlement(ctx, "g2")

	if s := current(t, c); s != (Accounts{}) {
		t.Errorf("expected accounts for missing goal, got %#v", s)
	}
	if c.Selected() != "" {
		t.Errorf("expected selection cleared, got %q", c.Selected())
	}
}

func TestDeletion_ApprovedDuringRequest(t *testing.T) {
	c, l := setupController(t)
	ctx := context.Background()

	l.Subscribe(func(ctx context.Context, ev ledger.Event) {
		if ev.Type == ledger.EventSettlementRequested {
			l.ApproveSettlement(ctx, ev.GoalID)
		}
	})

	mustNavigate(t, c, GoalDetail{GoalID: "g2"})
	if _, err := c.RequestDeletion(ctx); err != nil {
		t.Fatalf("RequestDeletion failed: %v", err)
	}
	if s := current(t, c); s != (Accounts{}) {
		t.Errorf("expected accounts, got %#v", s)
	}
}

func TestScreenFor(t *testing.T) {
	tests := []struct {
		kind Kind
		want Screen
	}{
		{KindHome, Home{}},
		{KindCreateGoal, CreateGoal{Step: 1}},
		{KindGoalDetail, GoalDetail{GoalID: "g1"}},
		{KindAddMoney, AddMoney{GoalID: "g1"}},
		{KindAutomation, Automation{}},
	}
	for _, tt := range tests {
		got, ok := ScreenFor(tt.kind, "g1")
		if !ok || got != tt.want {
			t.Errorf("ScreenFor(%s) = %#v, %v", tt.kind, got, ok)
		}
	}
	if _, ok := ScreenFor("settings", ""); ok {
		t.Error("expected unknown kind to be rejected")
	}
}

func TestHandleEvent_QueueIsBounded(t *testing.T) {
	c, _ := setupController(t)
	ctx := context.Background()

	mustNavigate(t, c, GoalDetail{GoalID: "g2"})

	for range 3 {
		c.HandleEvent(ctx, ledger.Event{Type: ledger.EventSettlementResolved, GoalID: "gone"})
	}
	if len(c.resolved) != 1 {
		t.Errorf("repeated events should be queued once, got %d", len(c.resolved))
	}

	for i := range maxQueuedResolved + 1 {
		c.HandleEvent(ctx, ledger.Event{Type: ledger.EventSettlementResolved, GoalID: fmt.Sprintf("old-%d", i)})
	}
	if len(c.resolved) > maxQueuedResolved {
		t.Errorf("queue grew past %d: %d", maxQueuedResolved, len(c.resolved))
	}

	if s := current(t, c); s != (Accounts{}) {
		t.Errorf("expected accounts, got %#v", s)
	}
	if c.Selected() != "" {
		t.Errorf("overflowed queue should clear the selection, got %q", c.Selected())
	}
}
