package navigation

import "github.com/mmynk/sharedgoals/internal/ledger"

// Kind identifies a screen variant.
type Kind string

const (
	KindHome              Kind = "home"
	KindAccounts          Kind = "accounts"
	KindAccountTypeSelect Kind = "account_type_select"
	KindCreateGoal        Kind = "create_goal"
	KindGoalDetail        Kind = "goal_detail"
	KindInvite            Kind = "invite"
	KindAddMoney          Kind = "add_money"
	KindWithdraw          Kind = "withdraw"
	KindHistory           Kind = "history"
	KindTransactions      Kind = "transactions"
	KindAutomation        Kind = "automation"
)

// Screen is one state of the navigation machine. The concrete types below
// are the only implementations.
type Screen interface {
	Kind() Kind
	isScreen()
}

// GoalScreen is implemented by screens that show a single goal.
type GoalScreen interface {
	Screen
	Goal() string
}

// Number of steps in the create-goal wizard: name, amount, review.
const CreateGoalSteps = 3

// Draft holds the create-goal wizard input.
type Draft struct {
	Name         string
	TargetAmount int64
	TargetDate   string
}

type (
	Home              struct{}
	Accounts          struct{}
	AccountTypeSelect struct{}
	Transactions      struct{}
	Automation        struct{}

	CreateGoal struct {
		Step  int // 1..CreateGoalSteps
		Draft Draft
	}

	GoalDetail struct{ GoalID string }
	Invite     struct{ GoalID string }
	History    struct{ GoalID string }

	// AddMoney carries the receipt of the last accepted contribution, if any.
	AddMoney struct {
		GoalID  string
		Receipt *ledger.Receipt
	}

	Withdraw struct {
		GoalID  string
		Receipt *ledger.Receipt
	}
)

func (Home) Kind() Kind              { return KindHome }
func (Accounts) Kind() Kind          { return KindAccounts }
func (AccountTypeSelect) Kind() Kind { return KindAccountTypeSelect }
func (Transactions) Kind() Kind      { return KindTransactions }
func (Automation) Kind() Kind        { return KindAutomation }
func (CreateGoal) Kind() Kind        { return KindCreateGoal }
func (GoalDetail) Kind() Kind        { return KindGoalDetail }
func (Invite) Kind() Kind            { return KindInvite }
func (History) Kind() Kind           { return KindHistory }
func (AddMoney) Kind() Kind          { return KindAddMoney }
func (Withdraw) Kind() Kind          { return KindWithdraw }

func (Home) isScreen()              {}
func (Accounts) isScreen()          {}
func (AccountTypeSelect) isScreen() {}
func (Transactions) isScreen()      {}
func (Automation) isScreen()        {}
func (CreateGoal) isScreen()        {}
func (GoalDetail) isScreen()        {}
func (Invite) isScreen()            {}
func (History) isScreen()           {}
func (AddMoney) isScreen()          {}
func (Withdraw) isScreen()          {}

func (s GoalDetail) Goal() string { return s.GoalID }
func (s Invite) Goal() string     { return s.GoalID }
func (s History) Goal() string    { return s.GoalID }
func (s AddMoney) Goal() string   { return s.GoalID }
func (s Withdraw) Goal() string   { return s.GoalID }

// goalOf returns the goal a screen refers to.
func goalOf(s Screen) (string, bool) {
	gs, ok := s.(GoalScreen)
	if !ok {
		return "", false
	}
	return gs.Goal(), true
}

// ScreenFor builds the screen of the given kind. Goal-scoped kinds use
// goalID; other kinds ignore it. Unknown kinds return false.
func ScreenFor(kind Kind, goalID string) (Screen, bool) {
	switch kind {
	case KindHome:
		return Home{}, true
	case KindAccounts:
		return Accounts{}, true
	case KindAccountTypeSelect:
		return AccountTypeSelect{}, true
	case KindTransactions:
		return Transactions{}, true
	case KindAutomation:
		return Automation{}, true
	case KindCreateGoal:
		return CreateGoal{Step: 1}, true
	case KindGoalDetail:
		return GoalDetail{GoalID: goalID}, true
	case KindInvite:
		return Invite{GoalID: goalID}, true
	case KindHistory:
		return History{GoalID: goalID}, true
	case KindAddMoney:
		return AddMoney{GoalID: goalID}, true
	case KindWithdraw:
		return Withdraw{GoalID: goalID}, true
	default:
		return nil, false
	}
}
