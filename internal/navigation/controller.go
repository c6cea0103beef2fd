// Package navigation implements the per-session screen state machine that
// sits between the view layer and the goal ledger.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmynk/sharedgoals/internal/calculator"
	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/models"
)

var (
	// ErrDirectGoalSwitch is returned when a goal screen tries to open a
	// different goal without going through home or accounts.
	ErrDirectGoalSwitch = errors.New("switching goals must go through home or accounts")

	// ErrWrongScreen is returned when an intent does not apply to the active screen.
	ErrWrongScreen = errors.New("action not available on this screen")

	// ErrUnsupportedAccountType is returned for account types other than shared.
	ErrUnsupportedAccountType = errors.New("account type not supported")
)

// AccountTypeShared is the only account type that can be created.
const AccountTypeShared = "shared"

// Ledger is the subset of *ledger.Ledger the controller drives.
type Ledger interface {
	Goal(ctx context.Context, goalID string) (*models.SharedGoal, error)
	CreateGoal(ctx context.Context, spec ledger.GoalSpec) (*models.SharedGoal, error)
	Contribute(ctx context.Context, goalID, memberID string, amount int64) (*ledger.Receipt, error)
	Withdraw(ctx context.Context, goalID, memberID string, amount int64) (*ledger.Receipt, error)
	AdjustTarget(ctx context.Context, goalID string, newTarget int64) (*models.SharedGoal, error)
	InviteMember(ctx context.Context, goalID string, member models.Member) (*models.SharedGoal, error)
	RequestDeletion(ctx context.Context, goalID string) (*models.Settlement, error)
}

// Controller tracks the active screen of one session. It is safe for
// concurrent use; ledger events may arrive from other goroutines.
type Controller struct {
	mu       sync.Mutex
	ledger   Ledger
	owner    models.Member
	screen   Screen
	selected string
	logger   *slog.Logger

	// Settled goal ids queued by HandleEvent, applied by the next lock.
	evMu          sync.Mutex
	resolved      []string
	dropSelection bool
}

// maxQueuedResolved bounds the settlements queued between two calls.
const maxQueuedResolved = 64

// NewController creates a controller on the home screen. owner is the member
// acting in this session: the creator of new goals and the contributor or
// withdrawer for amount screens.
func NewController(l Ledger, owner models.Member, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		ledger: l,
		owner:  owner,
		screen: Home{},
		logger: logger,
	}
}

// Owner returns the session member.
func (c *Controller) Owner() models.Member {
	return c.owner
}

// Selected returns the current goal id, or "" when no goal is selected.
func (c *Controller) Selected() string {
	c.lock()
	defer c.mu.Unlock()
	return c.selected
}

// Current returns the active screen. If that screen shows a goal that no
// longer exists, the controller first moves to accounts.
func (c *Controller) Current(ctx context.Context) (Screen, error) {
	c.lock()
	defer c.mu.Unlock()

	if err := c.revalidate(ctx); err != nil {
		return nil, err
	}
	return c.screen, nil
}

// revalidate moves away from a screen whose goal was deleted. Caller holds c.mu.
func (c *Controller) revalidate(ctx context.Context) error {
	goalID, ok := goalOf(c.screen)
	if !ok {
		return nil
	}
	_, err := c.ledger.Goal(ctx, goalID)
	if errors.Is(err, ledger.ErrNotFound) {
		c.logger.Info("Goal gone, returning to accounts", "goal_id", goalID)
		c.selected = ""
		c.set(Accounts{})
		return nil
	}
	return err
}

// Navigate moves to target. Goal screens require an existing goal. Once a
// goal is selected, another goal can only be opened from home or accounts.
// Entering the create-goal wizard always starts over at step 1.
func (c *Controller) Navigate(ctx context.Context, target Screen) (Screen, error) {
	if target == nil {
		return nil, fmt.Errorf("nil screen: %w", ErrWrongScreen)
	}

	c.lock()
	defer c.mu.Unlock()

	if err := c.revalidate(ctx); err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case CreateGoal:
		target = CreateGoal{Step: 1}
	case AddMoney:
		target = AddMoney{GoalID: t.GoalID}
	case Withdraw:
		target = Withdraw{GoalID: t.GoalID}
	}

	if goalID, ok := goalOf(target); ok {
		if c.selected != "" && c.selected != goalID && !atHub(c.screen) {
			return nil, fmt.Errorf("from goal %s to goal %s: %w", c.selected, goalID, ErrDirectGoalSwitch)
		}
		if _, err := c.ledger.Goal(ctx, goalID); err != nil {
			return nil, err
		}
		c.selected = goalID
	}

	c.set(target)
	return c.screen, nil
}

// Back follows the back edge of the active screen.
func (c *Controller) Back(ctx context.Context) (Screen, error) {
	c.lock()
	defer c.mu.Unlock()

	if err := c.revalidate(ctx); err != nil {
		return nil, err
	}

	switch s := c.screen.(type) {
	case GoalDetail, AccountTypeSelect:
		c.set(Accounts{})
	case Invite, AddMoney, Withdraw, History:
		goalID, _ := goalOf(s)
		c.set(GoalDetail{GoalID: goalID})
	case CreateGoal:
		if s.Step <= 1 {
			c.set(Accounts{})
		} else {
			s.Step--
			c.set(s)
		}
	case Accounts, Transactions, Automation:
		c.set(Home{})
	}
	return c.screen, nil
}

// SelectAccountType picks the kind of account to open from the account type
// screen. Only shared accounts are offered; they enter the create-goal wizard.
func (c *Controller) SelectAccountType(kind string) (Screen, error) {
	c.lock()
	defer c.mu.Unlock()

	if _, ok := c.screen.(AccountTypeSelect); !ok {
		return nil, fmt.Errorf("select account type on %s: %w", c.screen.Kind(), ErrWrongScreen)
	}
	if kind != AccountTypeShared {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnsupportedAccountType)
	}
	c.set(CreateGoal{Step: 1})
	return c.screen, nil
}

// SetDraftName sets the wizard's goal name.
func (c *Controller) SetDraftName(name string) (Screen, error) {
	return c.editDraft(func(d *Draft) error {
		d.Name = name
		return nil
	})
}

// SetDraftTarget sets the wizard's target from free text. Non-digits are
// stripped, so "R 85,000" is 85000.
func (c *Controller) SetDraftTarget(raw string) (Screen, error) {
	amount, err := parseAmount(raw)
	if err != nil {
		return nil, err
	}
	return c.editDraft(func(d *Draft) error {
		d.TargetAmount = amount
		return nil
	})
}

// SetDraftDate sets the wizard's target date.
func (c *Controller) SetDraftDate(date string) (Screen, error) {
	return c.editDraft(func(d *Draft) error {
		d.TargetDate = date
		return nil
	})
}

func (c *Controller) editDraft(edit func(*Draft) error) (Screen, error) {
	c.lock()
	defer c.mu.Unlock()

	s, ok := c.screen.(CreateGoal)
	if !ok {
		return nil, fmt.Errorf("edit draft on %s: %w", c.screen.Kind(), ErrWrongScreen)
	}
	if err := edit(&s.Draft); err != nil {
		return nil, err
	}
	c.screen = s
	return c.screen, nil
}

// Next advances the create-goal wizard. Leaving the amount step requires a
// positive target. On the review step the goal is created with the session
// owner as admin and the controller moves to accounts.
func (c *Controller) Next(ctx context.Context) (Screen, error) {
	c.lock()
	defer c.mu.Unlock()

	s, ok := c.screen.(CreateGoal)
	if !ok {
		return nil, fmt.Errorf("next on %s: %w", c.screen.Kind(), ErrWrongScreen)
	}

	switch {
	case s.Step == 2 && s.Draft.TargetAmount <= 0:
		return nil, fmt.Errorf("target %d: %w", s.Draft.TargetAmount, ledger.ErrInvalidAmount)
	case s.Step < CreateGoalSteps:
		s.Step++
		c.set(s)
		return c.screen, nil
	}

	goal, err := c.ledger.CreateGoal(ctx, ledger.GoalSpec{
		Name:         s.Draft.Name,
		TargetAmount: s.Draft.TargetAmount,
		TargetDate:   s.Draft.TargetDate,
		Creator:      c.owner,
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("Goal created from wizard", "goal_id", goal.ID, "member_id", c.owner.ID)
	c.set(Accounts{})
	return c.screen, nil
}

// SubmitAmount contributes on the add-money screen or withdraws on the
// withdraw screen. The receipt is kept on the screen until Done.
func (c *Controller) SubmitAmount(ctx context.Context, raw string) (*ledger.Receipt, error) {
	amount, err := parseAmount(raw)
	if err != nil {
		return nil, err
	}

	c.lock()
	defer c.mu.Unlock()

	switch s := c.screen.(type) {
	case AddMoney:
		receipt, err := c.ledger.Contribute(ctx, s.GoalID, c.owner.ID, amount)
		if err != nil {
			return nil, err
		}
		s.Receipt = receipt
		c.screen = s
		return receipt, nil
	case Withdraw:
		receipt, err := c.ledger.Withdraw(ctx, s.GoalID, c.owner.ID, amount)
		if err != nil {
			return nil, err
		}
		s.Receipt = receipt
		c.screen = s
		return receipt, nil
	default:
		return nil, fmt.Errorf("submit amount on %s: %w", c.screen.Kind(), ErrWrongScreen)
	}
}

// Done leaves an add-money, withdraw or invite screen for the goal's detail.
func (c *Controller) Done(ctx context.Context) (Screen, error) {
	c.lock()
	defer c.mu.Unlock()

	if err := c.revalidate(ctx); err != nil {
		return nil, err
	}

	switch s := c.screen.(type) {
	case AddMoney, Withdraw, Invite:
		goalID, _ := goalOf(s)
		c.set(GoalDetail{GoalID: goalID})
		return c.screen, nil
	default:
		return nil, fmt.Errorf("done on %s: %w", c.screen.Kind(), ErrWrongScreen)
	}
}

// AdjustTarget changes the target of the goal shown on the detail screen.
func (c *Controller) AdjustTarget(ctx context.Context, raw string) (*models.SharedGoal, error) {
	amount, err := parseAmount(raw)
	if err != nil {
		return nil, err
	}

	c.lock()
	defer c.mu.Unlock()

	s, ok := c.screen.(GoalDetail)
	if !ok {
		return nil, fmt.Errorf("adjust target on %s: %w", c.screen.Kind(), ErrWrongScreen)
	}
	return c.ledger.AdjustTarget(ctx, s.GoalID, amount)
}

// RequestDeletion asks to close the goal shown on the detail screen. The
// screen does not change; the controller leaves it when the settlement
// resolves.
func (c *Controller) RequestDeletion(ctx context.Context) (*models.Settlement, error) {
	c.lock()
	defer c.mu.Unlock()

	s, ok := c.screen.(GoalDetail)
	if !ok {
		return nil, fmt.Errorf("request deletion on %s: %w", c.screen.Kind(), ErrWrongScreen)
	}
	return c.ledger.RequestDeletion(ctx, s.GoalID)
}

// Invite adds a member to the goal shown on the invite screen and returns to
// the goal's detail.
func (c *Controller) Invite(ctx context.Context, member models.Member) (*models.SharedGoal, error) {
	c.lock()
	defer c.mu.Unlock()

	s, ok := c.screen.(Invite)
	if !ok {
		return nil, fmt.Errorf("invite on %s: %w", c.screen.Kind(), ErrWrongScreen)
	}
	goal, err := c.ledger.InviteMember(ctx, s.GoalID, member)
	if err != nil {
		return nil, err
	}
	c.set(GoalDetail{GoalID: s.GoalID})
	return goal, nil
}

// HandleEvent is a ledger.Handler. A resolved settlement sends the session to
// accounts whatever screen is active. The transition is queued and applied
// before the next read or intent, so the event may arrive while a controller
// call is still inside the ledger.
func (c *Controller) HandleEvent(_ context.Context, ev ledger.Event) {
	if ev.Type != ledger.EventSettlementResolved {
		return
	}

	c.evMu.Lock()
	defer c.evMu.Unlock()
	if slices.Contains(c.resolved, ev.GoalID) {
		return
	}
	if len(c.resolved) == maxQueuedResolved {
		// Only the selected goal matters; forget it rather than grow.
		c.dropSelection = true
		c.resolved = c.resolved[:0]
	}
	c.resolved = append(c.resolved, ev.GoalID)
}

// lock acquires c.mu and applies queued settlement events.
func (c *Controller) lock() {
	c.mu.Lock()

	c.evMu.Lock()
	resolved, dropSelection := c.resolved, c.dropSelection
	c.resolved, c.dropSelection = nil, false
	c.evMu.Unlock()

	if dropSelection {
		c.selected = ""
		c.set(Accounts{})
	}

	for _, goalID := range resolved {
		if c.selected == goalID {
			c.selected = ""
		}
		c.logger.Info("Settlement resolved, returning to accounts", "goal_id", goalID)
		c.set(Accounts{})
	}
}

// atHub reports whether s is a screen goals are picked from.
func atHub(s Screen) bool {
	switch s.(type) {
	case Home, Accounts:
		return true
	}
	return false
}

// set changes the active screen. Caller holds c.mu.
func (c *Controller) set(s Screen) {
	if c.screen.Kind() != s.Kind() {
		c.logger.Debug("Screen changed", "from", c.screen.Kind(), "to", s.Kind(), "member_id", c.owner.ID)
	}
	c.screen = s
}

func parseAmount(raw string) (int64, error) {
	amount, err := calculator.ParseAmount(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ledger.ErrInvalidAmount, err)
	}
	return amount, nil
}
