package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/middleware"
	"github.com/mmynk/sharedgoals/pkg/api"
	"github.com/mmynk/sharedgoals/pkg/api/apiconnect"
)

// Ensure GoalService implements the Connect handler interface.
var _ apiconnect.GoalServiceHandler = (*GoalService)(nil)

// GoalService implements the Connect GoalService on top of the ledger.
type GoalService struct {
	ledger   *ledger.Ledger
	recorder Recorder
	opts     options
}

// NewGoalService creates a GoalService. rec may be nil.
func NewGoalService(l *ledger.Ledger, rec Recorder, opts ...Option) *GoalService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &GoalService{ledger: l, recorder: rec, opts: newOptions(opts)}
}

// CreateGoal creates a goal with the calling member as sole admin.
func (s *GoalService) CreateGoal(ctx context.Context, req *connect.Request[api.CreateGoalRequest]) (*connect.Response[api.GoalResponse], error) {
	memberID := middleware.GetMemberID(ctx)
	slog.Info("CreateGoal request received",
		"name", req.Msg.Name,
		"target", req.Msg.TargetAmount,
		"member_id", memberID,
	)

	creator := s.opts.lookupMember(ctx, s.ledger, memberID)
	if req.Msg.CreatorName != "" {
		creator.Name = req.Msg.CreatorName
		creator.Initials = ""
	}

	goal, err := s.ledger.CreateGoal(ctx, ledger.GoalSpec{
		Name:         req.Msg.Name,
		TargetAmount: req.Msg.TargetAmount,
		TargetDate:   req.Msg.TargetDate,
		Creator:      creator,
	})
	if err != nil {
		return nil, fail(s.recorder, "CreateGoal", err, "member_id", memberID)
	}

	return connect.NewResponse(&api.GoalResponse{Goal: goalToAPI(goal)}), nil
}

// GetGoal retrieves a goal by ID.
func (s *GoalService) GetGoal(ctx context.Context, req *connect.Request[api.GoalRequest]) (*connect.Response[api.GoalResponse], error) {
	slog.Info("GetGoal request received", "goal_id", req.Msg.GoalID)

	goal, err := s.ledger.Goal(ctx, req.Msg.GoalID)
	if err != nil {
		return nil, fail(s.recorder, "GetGoal", err, "goal_id", req.Msg.GoalID)
	}

	return connect.NewResponse(&api.GoalResponse{Goal: goalToAPI(goal)}), nil
}

// ListGoals lists every goal, pending settlements included, in creation order.
func (s *GoalService) ListGoals(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGoalsResponse], error) {
	slog.Info("ListGoals request received")

	goals, err := s.ledger.ListGoals(ctx)
	if err != nil {
		return nil, fail(s.recorder, "ListGoals", err)
	}

	out := make([]*api.Goal, len(goals))
	for i, g := range goals {
		out[i] = goalToAPI(g)
	}

	slog.Info("ListGoals successful", "count", len(goals))

	return connect.NewResponse(&api.ListGoalsResponse{Goals: out}), nil
}

// Contribute adds money to a goal for the given or calling member.
func (s *GoalService) Contribute(ctx context.Context, req *connect.Request[api.AmountRequest]) (*connect.Response[api.TransactionResponse], error) {
	memberID := actingMember(ctx, req.Msg.MemberID)
	slog.Info("Contribute request received",
		"goal_id", req.Msg.GoalID,
		"member_id", memberID,
		"amount", req.Msg.Amount,
	)

	receipt, err := s.ledger.Contribute(ctx, req.Msg.GoalID, memberID, req.Msg.Amount)
	if err != nil {
		return nil, fail(s.recorder, "Contribute", err, "goal_id", req.Msg.GoalID, "member_id", memberID)
	}

	return connect.NewResponse(receiptToAPI(receipt)), nil
}

// Withdraw takes money out of a goal for the given or calling member.
func (s *GoalService) Withdraw(ctx context.Context, req *connect.Request[api.AmountRequest]) (*connect.Response[api.TransactionResponse], error) {
	memberID := actingMember(ctx, req.Msg.MemberID)
	slog.Info("Withdraw request received",
		"goal_id", req.Msg.GoalID,
		"member_id", memberID,
		"amount", req.Msg.Amount,
	)

	receipt, err := s.ledger.Withdraw(ctx, req.Msg.GoalID, memberID, req.Msg.Amount)
	if err != nil {
		return nil, fail(s.recorder, "Withdraw", err, "goal_id", req.Msg.GoalID, "member_id", memberID)
	}

	return connect.NewResponse(receiptToAPI(receipt)), nil
}

// AdjustTarget changes a goal's target, spending one change.
func (s *GoalService) AdjustTarget(ctx context.Context, req *connect.Request[api.AdjustTargetRequest]) (*connect.Response[api.GoalResponse], error) {
	slog.Info("AdjustTarget request received",
		"goal_id", req.Msg.GoalID,
		"target", req.Msg.TargetAmount,
	)

	goal, err := s.ledger.AdjustTarget(ctx, req.Msg.GoalID, req.Msg.TargetAmount)
	if err != nil {
		return nil, fail(s.recorder, "AdjustTarget", err, "goal_id", req.Msg.GoalID)
	}

	return connect.NewResponse(&api.GoalResponse{Goal: goalToAPI(goal)}), nil
}

// InviteMember adds a member to a goal.
func (s *GoalService) InviteMember(ctx context.Context, req *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.GoalResponse], error) {
	slog.Info("InviteMember request received",
		"goal_id", req.Msg.GoalID,
		"member_id", req.Msg.Member.ID,
		"name", req.Msg.Member.Name,
	)

	goal, err := s.ledger.InviteMember(ctx, req.Msg.GoalID, memberFromAPI(req.Msg.Member))
	if err != nil {
		return nil, fail(s.recorder, "InviteMember", err, "goal_id", req.Msg.GoalID)
	}

	return connect.NewResponse(&api.GoalResponse{Goal: goalToAPI(goal)}), nil
}

// RequestDeletion starts settling a goal.
func (s *GoalService) RequestDeletion(ctx context.Context, req *connect.Request[api.GoalRequest]) (*connect.Response[api.SettlementResponse], error) {
	slog.Info("RequestDeletion request received", "goal_id", req.Msg.GoalID)

	settlement, err := s.ledger.RequestDeletion(ctx, req.Msg.GoalID)
	if err != nil {
		return nil, fail(s.recorder, "RequestDeletion", err, "goal_id", req.Msg.GoalID)
	}

	return connect.NewResponse(&api.SettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ApproveSettlement is the manual counterparty approval.
func (s *GoalService) ApproveSettlement(ctx context.Context, req *connect.Request[api.GoalRequest]) (*connect.Response[api.SettlementResponse], error) {
	slog.Info("ApproveSettlement request received",
		"goal_id", req.Msg.GoalID,
		"member_id", middleware.GetMemberID(ctx),
	)

	settlement, err := s.ledger.ApproveSettlement(ctx, req.Msg.GoalID)
	if err != nil {
		return nil, fail(s.recorder, "ApproveSettlement", err, "goal_id", req.Msg.GoalID)
	}

	return connect.NewResponse(&api.SettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ListTransactions lists a goal's transactions, newest first.
func (s *GoalService) ListTransactions(ctx context.Context, req *connect.Request[api.GoalRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	slog.Info("ListTransactions request received", "goal_id", req.Msg.GoalID)

	txs, err := s.ledger.ListTransactions(ctx, req.Msg.GoalID)
	if err != nil {
		return nil, fail(s.recorder, "ListTransactions", err, "goal_id", req.Msg.GoalID)
	}

	out := make([]*api.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = transactionToAPI(tx)
	}

	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: out}), nil
}

// actingMember returns requested, or the calling member when it is empty.
func actingMember(ctx context.Context, requested string) string {
	if requested != "" {
		return requested
	}
	return middleware.GetMemberID(ctx)
}
