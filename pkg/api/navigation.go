package api

type Draft struct {
	Name         string `json:"name"`
	TargetAmount int64  `json:"target_amount"`
	TargetDate   string `json:"target_date,omitempty"`
}

// Screen is the active navigation state of a session.
type Screen struct {
	Kind   string `json:"kind"`
	GoalID string `json:"goal_id,omitempty"`

	// Wizard state, set on create_goal.
	Step  int    `json:"step,omitempty"`
	Draft *Draft `json:"draft,omitempty"`

	// Last accepted transaction, set on add_money and withdraw.
	Receipt *TransactionResponse `json:"receipt,omitempty"`

	// Selected is the session's current goal, which may differ from GoalID
	// on screens that are not goal scoped.
	Selected string `json:"selected,omitempty"`
}

type ScreenResponse struct {
	Screen *Screen `json:"screen"`
}

type NavigateRequest struct {
	Kind   string `json:"kind"`
	GoalID string `json:"goal_id,omitempty"`
}

type SelectAccountTypeRequest struct {
	AccountType string `json:"account_type"`
}

// UpdateDraftRequest sets the wizard fields that are present. Target is free
// text; non-digits are stripped.
type UpdateDraftRequest struct {
	Name       *string `json:"name,omitempty"`
	Target     *string `json:"target,omitempty"`
	TargetDate *string `json:"target_date,omitempty"`
}

// AmountInputRequest carries a free-text amount as typed by the user.
type AmountInputRequest struct {
	Amount string `json:"amount"`
}

type InviteRequest struct {
	Member Member `json:"member"`
}
