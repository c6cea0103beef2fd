// Package apiconnect holds the Connect procedures, handlers and clients of
// the shared goals services.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/sharedgoals/pkg/api"
)

// GoalServiceName is the fully-qualified name of the GoalService service.
const GoalServiceName = "sharedgoals.v1.GoalService"

// Procedure paths of GoalService.
const (
	GoalServiceCreateGoalProcedure        = "/sharedgoals.v1.GoalService/CreateGoal"
	GoalServiceGetGoalProcedure           = "/sharedgoals.v1.GoalService/GetGoal"
	GoalServiceListGoalsProcedure         = "/sharedgoals.v1.GoalService/ListGoals"
	GoalServiceContributeProcedure        = "/sharedgoals.v1.GoalService/Contribute"
	GoalServiceWithdrawProcedure          = "/sharedgoals.v1.GoalService/Withdraw"
	GoalServiceAdjustTargetProcedure      = "/sharedgoals.v1.GoalService/AdjustTarget"
	GoalServiceInviteMemberProcedure      = "/sharedgoals.v1.GoalService/InviteMember"
	GoalServiceRequestDeletionProcedure   = "/sharedgoals.v1.GoalService/RequestDeletion"
	GoalServiceApproveSettlementProcedure = "/sharedgoals.v1.GoalService/ApproveSettlement"
	GoalServiceListTransactionsProcedure  = "/sharedgoals.v1.GoalService/ListTransactions"
)

// GoalServiceHandler is implemented by the server side of GoalService.
type GoalServiceHandler interface {
	CreateGoal(context.Context, *connect.Request[api.CreateGoalRequest]) (*connect.Response[api.GoalResponse], error)
	GetGoal(context.Context, *connect.Request[api.GoalRequest]) (*connect.Response[api.GoalResponse], error)
	ListGoals(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGoalsResponse], error)
	Contribute(context.Context, *connect.Request[api.AmountRequest]) (*connect.Response[api.TransactionResponse], error)
	Withdraw(context.Context, *connect.Request[api.AmountRequest]) (*connect.Response[api.TransactionResponse], error)
	AdjustTarget(context.Context, *connect.Request[api.AdjustTargetRequest]) (*connect.Response[api.GoalResponse], error)
	InviteMember(context.Context, *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.GoalResponse], error)
	RequestDeletion(context.Context, *connect.Request[api.GoalRequest]) (*connect.Response[api.SettlementResponse], error)
	ApproveSettlement(context.Context, *connect.Request[api.GoalRequest]) (*connect.Response[api.SettlementResponse], error)
	ListTransactions(context.Context, *connect.Request[api.GoalRequest]) (*connect.Response[api.ListTransactionsResponse], error)
}

// NewGoalServiceHandler builds an HTTP handler for svc. It returns the path
// to mount the handler on.
func NewGoalServiceHandler(svc GoalServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GoalServiceCreateGoalProcedure, connect.NewUnaryHandler(GoalServiceCreateGoalProcedure, svc.CreateGoal, opts...))
	mux.Handle(GoalServiceGetGoalProcedure, connect.NewUnaryHandler(GoalServiceGetGoalProcedure, svc.GetGoal, opts...))
	mux.Handle(GoalServiceListGoalsProcedure, connect.NewUnaryHandler(GoalServiceListGoalsProcedure, svc.ListGoals, opts...))
	mux.Handle(GoalServiceContributeProcedure, connect.NewUnaryHandler(GoalServiceContributeProcedure, svc.Contribute, opts...))
	mux.Handle(GoalServiceWithdrawProcedure, connect.NewUnaryHandler(GoalServiceWithdrawProcedure, svc.Withdraw, opts...))
	mux.Handle(GoalServiceAdjustTargetProcedure, connect.NewUnaryHandler(GoalServiceAdjustTargetProcedure, svc.AdjustTarget, opts...))
	mux.Handle(GoalServiceInviteMemberProcedure, connect.NewUnaryHandler(GoalServiceInviteMemberProcedure, svc.InviteMember, opts...))
	mux.Handle(GoalServiceRequestDeletionProcedure, connect.NewUnaryHandler(GoalServiceRequestDeletionProcedure, svc.RequestDeletion, opts...))
	mux.Handle(GoalServiceApproveSettlementProcedure, connect.NewUnaryHandler(GoalServiceApproveSettlementProcedure, svc.ApproveSettlement, opts...))
	mux.Handle(GoalServiceListTransactionsProcedure, connect.NewUnaryHandler(GoalServiceListTransactionsProcedure, svc.ListTransactions, opts...))

	return "/" + GoalServiceName + "/", mux
}

// GoalServiceClient is a client for GoalService.
type GoalServiceClient interface {
	CreateGoal(context.Context, *connect.Request[api.CreateGoalRequest]) (*connect.Response[api.GoalResponse], error)
	GetGoal(context.Context, *connect.Request[api.GoalRequest]) (*connect.Response[api.GoalResponse], error)
	ListGoals(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGoalsResponse], error)
	Contribute(context.Context, *connect.Request[api.AmountRequest]) (*connect.Response[api.TransactionResponse], error)
	Withdraw(context.Context, *connect.Request[api.AmountRequest]) (*connect.Response[api.TransactionResponse], error)
	AdjustTarget(context.Context, *connect.Request[api.AdjustTargetRequest]) (*connect.Response[api.GoalResponse], error)
	InviteMember(context.Context, *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.GoalResponse], error)
	RequestDeletion(context.Context, *connect.Request[api.GoalRequest]) (*connect.Response[api.SettlementResponse], error)
	ApproveSettlement(context.Context, *connect.Request[api.GoalRequest]) (*connect.Response[api.SettlementResponse], error)
	ListTransactions(context.Context, *connect.Request[api.GoalRequest]) (*connect.Response[api.ListTransactionsResponse], error)
}

// NewGoalServiceClient constructs a client for GoalService at baseURL.
func NewGoalServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GoalServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &goalServiceClient{
		createGoal:        connect.NewClient[api.CreateGoalRequest, api.GoalResponse](httpClient, baseURL+GoalServiceCreateGoalProcedure, opts...),
		getGoal:           connect.NewClient[api.GoalRequest, api.GoalResponse](httpClient, baseURL+GoalServiceGetGoalProcedure, opts...),
		listGoals:         connect.NewClient[emptypb.Empty, api.ListGoalsResponse](httpClient, baseURL+GoalServiceListGoalsProcedure, opts...),
		contribute:        connect.NewClient[api.AmountRequest, api.TransactionResponse](httpClient, baseURL+GoalServiceContributeProcedure, opts...),
		withdraw:          connect.NewClient[api.AmountRequest, api.TransactionResponse](httpClient, baseURL+GoalServiceWithdrawProcedure, opts...),
		adjustTarget:      connect.NewClient[api.AdjustTargetRequest, api.GoalResponse](httpClient, baseURL+GoalServiceAdjustTargetProcedure, opts...),
		inviteMember:      connect.NewClient[api.InviteMemberRequest, api.GoalResponse](httpClient, baseURL+GoalServiceInviteMemberProcedure, opts...),
		requestDeletion:   connect.NewClient[api.GoalRequest, api.SettlementResponse](httpClient, baseURL+GoalServiceRequestDeletionProcedure, opts...),
		approveSettlement: connect.NewClient[api.GoalRequest, api.SettlementResponse](httpClient, baseURL+GoalServiceApproveSettlementProcedure, opts...),
		listTransactions:  connect.NewClient[api.GoalRequest, api.ListTransactionsResponse](httpClient, baseURL+GoalServiceListTransactionsProcedure, opts...),
	}
}

type goalServiceClient struct {
	createGoal        *connect.Client[api.CreateGoalRequest, api.GoalResponse]
	getGoal           *connect.Client[api.GoalRequest, api.GoalResponse]
	listGoals         *connect.Client[emptypb.Empty, api.ListGoalsResponse]
	contribute        *connect.Client[api.AmountRequest, api.TransactionResponse]
	withdraw          *connect.Client[api.AmountRequest, api.TransactionResponse]
	adjustTarget      *connect.Client[api.AdjustTargetRequest, api.GoalResponse]
	inviteMember      *connect.Client[api.InviteMemberRequest, api.GoalResponse]
	requestDeletion   *connect.Client[api.GoalRequest, api.SettlementResponse]
	approveSettlement *connect.Client[api.GoalRequest, api.SettlementResponse]
	listTransactions  *connect.Client[api.GoalRequest, api.ListTransactionsResponse]
}

func (c *goalServiceClient) CreateGoal(ctx context.Context, req *connect.Request[api.CreateGoalRequest]) (*connect.Response[api.GoalResponse], error) {
	return c.createGoal.CallUnary(ctx, req)
}

func (c *goalServiceClient) GetGoal(ctx context.Context, req *connect.Request[api.GoalRequest]) (*connect.Response[api.GoalResponse], error) {
	return c.getGoal.CallUnary(ctx, req)
}

func (c *goalServiceClient) ListGoals(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGoalsResponse], error) {
	return c.listGoals.CallUnary(ctx, req)
}

func (c *goalServiceClient) Contribute(ctx context.Context, req *connect.Request[api.AmountRequest]) (*connect.Response[api.TransactionResponse], error) {
	return c.contribute.CallUnary(ctx, req)
}

func (c *goalServiceClient) Withdraw(ctx context.Context, req *connect.Request[api.AmountRequest]) (*connect.Response[api.TransactionResponse], error) {
	return c.withdraw.CallUnary(ctx, req)
}

func (c *goalServiceClient) AdjustTarget(ctx context.Context, req *connect.Request[api.AdjustTargetRequest]) (*connect.Response[api.GoalResponse], error) {
	return c.adjustTarget.CallUnary(ctx, req)
}

func (c *goalServiceClient) InviteMember(ctx context.Context, req *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.GoalResponse], error) {
	return c.inviteMember.CallUnary(ctx, req)
}

func (c *goalServiceClient) RequestDeletion(ctx context.Context, req *connect.Request[api.GoalRequest]) (*connect.Response[api.SettlementResponse], error) {
	return c.requestDeletion.CallUnary(ctx, req)
}

func (c *goalServiceClient) ApproveSettlement(ctx context.Context, req *connect.Request[api.GoalRequest]) (*connect.Response[api.SettlementResponse], error) {
	return c.approveSettlement.CallUnary(ctx, req)
}

func (c *goalServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.GoalRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}
