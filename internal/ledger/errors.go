package ledger

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidAmount         = errors.New("amount must be a positive whole number")
	ErrLimitExceeded         = errors.New("withdrawal exceeds own contribution")
	ErrQuotaExhausted        = errors.New("no target changes remaining")
	ErrDuplicateMember       = errors.New("member already belongs to goal")
	ErrGoalPendingSettlement = errors.New("goal settlement pending")
	ErrNotPending            = errors.New("no settlement pending for goal")
)

// Kind returns a short, stable name for the ledger error wrapped in err,
// suitable for metric labels and log fields. Unknown errors are "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, ErrQuotaExhausted):
		return "quota_exhausted"
	case errors.Is(err, ErrDuplicateMember):
		return "duplicate_member"
	case errors.Is(err, ErrGoalPendingSettlement):
		return "goal_pending_settlement"
	case errors.Is(err, ErrNotPending):
		return "not_pending"
	default:
		return "internal"
	}
}
