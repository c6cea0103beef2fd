package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/navigation"
)

var errUnknownScreen = errors.New("unknown screen")

// Recorder counts rejected operations. *metrics.Recorder implements it.
type Recorder interface {
	Rejected(op string, err error)
}

type nopRecorder struct{}

func (nopRecorder) Rejected(string, error) {}

// connectCode maps ledger and navigation errors to Connect codes.
func connectCode(err error) connect.Code {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, navigation.ErrUnsupportedAccountType),
		errors.Is(err, errUnknownScreen):
		return connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrDuplicateMember):
		return connect.CodeAlreadyExists
	case errors.Is(err, ledger.ErrLimitExceeded),
		errors.Is(err, ledger.ErrQuotaExhausted),
		errors.Is(err, ledger.ErrGoalPendingSettlement),
		errors.Is(err, ledger.ErrNotPending),
		errors.Is(err, navigation.ErrWrongScreen),
		errors.Is(err, navigation.ErrDirectGoalSwitch):
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeInternal
	}
}

// fail logs a failed operation, counts it and wraps it for the client.
func fail(rec Recorder, op string, err error, args ...any) error {
	code := connectCode(err)
	args = append(args, "error", err, "code", code)
	if code == connect.CodeInternal {
		slog.Error(op+" failed", args...)
	} else {
		slog.Info(op+" rejected", args...)
	}
	rec.Rejected(op, err)
	return connect.NewError(code, err)
}
