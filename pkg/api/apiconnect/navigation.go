package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/sharedgoals/pkg/api"
)

// NavigationServiceName is the fully-qualified name of the NavigationService service.
const NavigationServiceName = "sharedgoals.v1.NavigationService"

// Procedure paths of NavigationService.
const (
	NavigationServiceCurrentProcedure           = "/sharedgoals.v1.NavigationService/Current"
	NavigationServiceNavigateProcedure          = "/sharedgoals.v1.NavigationService/Navigate"
	NavigationServiceBackProcedure              = "/sharedgoals.v1.NavigationService/Back"
	NavigationServiceSelectAccountTypeProcedure = "/sharedgoals.v1.NavigationService/SelectAccountType"
	NavigationServiceUpdateDraftProcedure       = "/sharedgoals.v1.NavigationService/UpdateDraft"
	NavigationServiceNextProcedure              = "/sharedgoals.v1.NavigationService/Next"
	NavigationServiceSubmitAmountProcedure      = "/sharedgoals.v1.NavigationService/SubmitAmount"
	NavigationServiceDoneProcedure              = "/sharedgoals.v1.NavigationService/Done"
	NavigationServiceAdjustTargetProcedure      = "/sharedgoals.v1.NavigationService/AdjustTarget"
	NavigationServiceRequestDeletionProcedure   = "/sharedgoals.v1.NavigationService/RequestDeletion"
	NavigationServiceInviteProcedure            = "/sharedgoals.v1.NavigationService/Invite"
)

// NavigationServiceHandler is implemented by the server side of NavigationService.
type NavigationServiceHandler interface {
	Current(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error)
	Navigate(context.Context, *connect.Request[api.NavigateRequest]) (*connect.Response[api.ScreenResponse], error)
	Back(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error)
	SelectAccountType(context.Context, *connect.Request[api.SelectAccountTypeRequest]) (*connect.Response[api.ScreenResponse], error)
	UpdateDraft(context.Context, *connect.Request[api.UpdateDraftRequest]) (*connect.Response[api.ScreenResponse], error)
	Next(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error)
	SubmitAmount(context.Context, *connect.Request[api.AmountInputRequest]) (*connect.Response[api.ScreenResponse], error)
	Done(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error)
	AdjustTarget(context.Context, *connect.Request[api.AmountInputRequest]) (*connect.Response[api.GoalResponse], error)
	RequestDeletion(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.SettlementResponse], error)
	Invite(context.Context, *connect.Request[api.InviteRequest]) (*connect.Response[api.GoalResponse], error)
}

// NewNavigationServiceHandler builds an HTTP handler for svc. It returns the
// path to mount the handler on.
func NewNavigationServiceHandler(svc NavigationServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(NavigationServiceCurrentProcedure, connect.NewUnaryHandler(NavigationServiceCurrentProcedure, svc.Current, opts...))
	mux.Handle(NavigationServiceNavigateProcedure, connect.NewUnaryHandler(NavigationServiceNavigateProcedure, svc.Navigate, opts...))
	mux.Handle(NavigationServiceBackProcedure, connect.NewUnaryHandler(NavigationServiceBackProcedure, svc.Back, opts...))
	mux.Handle(NavigationServiceSelectAccountTypeProcedure, connect.NewUnaryHandler(NavigationServiceSelectAccountTypeProcedure, svc.SelectAccountType, opts...))
	mux.Handle(NavigationServiceUpdateDraftProcedure, connect.NewUnaryHandler(NavigationServiceUpdateDraftProcedure, svc.UpdateDraft, opts...))
	mux.Handle(NavigationServiceNextProcedure, connect.NewUnaryHandler(NavigationServiceNextProcedure, svc.Next, opts...))
	mux.Handle(NavigationServiceSubmitAmountProcedure, connect.NewUnaryHandler(NavigationServiceSubmitAmountProcedure, svc.SubmitAmount, opts...))
	mux.Handle(NavigationServiceDoneProcedure, connect.NewUnaryHandler(NavigationServiceDoneProcedure, svc.Done, opts...))
	mux.Handle(NavigationServiceAdjustTargetProcedure, connect.NewUnaryHandler(NavigationServiceAdjustTargetProcedure, svc.AdjustTarget, opts...))
	mux.Handle(NavigationServiceRequestDeletionProcedure, connect.NewUnaryHandler(NavigationServiceRequestDeletionProcedure, svc.RequestDeletion, opts...))
	mux.Handle(NavigationServiceInviteProcedure, connect.NewUnaryHandler(NavigationServiceInviteProcedure, svc.Invite, opts...))

	return "/" + NavigationServiceName + "/", mux
}

// NavigationServiceClient is a client for NavigationService.
type NavigationServiceClient interface {
	Current(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error)
	Navigate(context.Context, *connect.Request[api.NavigateRequest]) (*connect.Response[api.ScreenResponse], error)
	Back(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error)
	SelectAccountType(context.Context, *connect.Request[api.SelectAccountTypeRequest]) (*connect.Response[api.ScreenResponse], error)
	UpdateDraft(context.Context, *connect.Request[api.UpdateDraftRequest]) (*connect.Response[api.ScreenResponse], error)
	Next(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error)
	SubmitAmount(context.Context, *connect.Request[api.AmountInputRequest]) (*connect.Response[api.ScreenResponse], error)
	Done(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error)
	AdjustTarget(context.Context, *connect.Request[api.AmountInputRequest]) (*connect.Response[api.GoalResponse], error)
	RequestDeletion(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.SettlementResponse], error)
	Invite(context.Context, *connect.Request[api.InviteRequest]) (*connect.Response[api.GoalResponse], error)
}

// NewNavigationServiceClient constructs a client for NavigationService at baseURL.
func NewNavigationServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) NavigationServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &navigationServiceClient{
		current:           connect.NewClient[emptypb.Empty, api.ScreenResponse](httpClient, baseURL+NavigationServiceCurrentProcedure, opts...),
		navigate:          connect.NewClient[api.NavigateRequest, api.ScreenResponse](httpClient, baseURL+NavigationServiceNavigateProcedure, opts...),
		back:              connect.NewClient[emptypb.Empty, api.ScreenResponse](httpClient, baseURL+NavigationServiceBackProcedure, opts...),
		selectAccountType: connect.NewClient[api.SelectAccountTypeRequest, api.ScreenResponse](httpClient, baseURL+NavigationServiceSelectAccountTypeProcedure, opts...),
		updateDraft:       connect.NewClient[api.UpdateDraftRequest, api.ScreenResponse](httpClient, baseURL+NavigationServiceUpdateDraftProcedure, opts...),
		next:              connect.NewClient[emptypb.Empty, api.ScreenResponse](httpClient, baseURL+NavigationServiceNextProcedure, opts...),
		submitAmount:      connect.NewClient[api.AmountInputRequest, api.ScreenResponse](httpClient, baseURL+NavigationServiceSubmitAmountProcedure, opts...),
		done:              connect.NewClient[emptypb.Empty, api.ScreenResponse](httpClient, baseURL+NavigationServiceDoneProcedure, opts...),
		adjustTarget:      connect.NewClient[api.AmountInputRequest, api.GoalResponse](httpClient, baseURL+NavigationServiceAdjustTargetProcedure, opts...),
		requestDeletion:   connect.NewClient[emptypb.Empty, api.SettlementResponse](httpClient, baseURL+NavigationServiceRequestDeletionProcedure, opts...),
		invite:            connect.NewClient[api.InviteRequest, api.GoalResponse](httpClient, baseURL+NavigationServiceInviteProcedure, opts...),
	}
}

type navigationServiceClient struct {
	current           *connect.Client[emptypb.Empty, api.ScreenResponse]
	navigate          *connect.Client[api.NavigateRequest, api.ScreenResponse]
	back              *connect.Client[emptypb.Empty, api.ScreenResponse]
	selectAccountType *connect.Client[api.SelectAccountTypeRequest, api.ScreenResponse]
	updateDraft       *connect.Client[api.UpdateDraftRequest, api.ScreenResponse]
	next              *connect.Client[emptypb.Empty, api.ScreenResponse]
	submitAmount      *connect.Client[api.AmountInputRequest, api.ScreenResponse]
	done              *connect.Client[emptypb.Empty, api.ScreenResponse]
	adjustTarget      *connect.Client[api.AmountInputRequest, api.GoalResponse]
	requestDeletion   *connect.Client[emptypb.Empty, api.SettlementResponse]
	invite            *connect.Client[api.InviteRequest, api.GoalResponse]
}

func (c *navigationServiceClient) Current(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error) {
	return c.current.CallUnary(ctx, req)
}

func (c *navigationServiceClient) Navigate(ctx context.Context, req *connect.Request[api.NavigateRequest]) (*connect.Response[api.ScreenResponse], error) {
	return c.navigate.CallUnary(ctx, req)
}

func (c *navigationServiceClient) Back(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error) {
	return c.back.CallUnary(ctx, req)
}

func (c *navigationServiceClient) SelectAccountType(ctx context.Context, req *connect.Request[api.SelectAccountTypeRequest]) (*connect.Response[api.ScreenResponse], error) {
	return c.selectAccountType.CallUnary(ctx, req)
}

func (c *navigationServiceClient) UpdateDraft(ctx context.Context, req *connect.Request[api.UpdateDraftRequest]) (*connect.Response[api.ScreenResponse], error) {
	return c.updateDraft.CallUnary(ctx, req)
}

func (c *navigationServiceClient) Next(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error) {
	return c.next.CallUnary(ctx, req)
}

func (c *navigationServiceClient) SubmitAmount(ctx context.Context, req *connect.Request[api.AmountInputRequest]) (*connect.Response[api.ScreenResponse], error) {
	return c.submitAmount.CallUnary(ctx, req)
}

func (c *navigationServiceClient) Done(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error) {
	return c.done.CallUnary(ctx, req)
}

func (c *navigationServiceClient) AdjustTarget(ctx context.Context, req *connect.Request[api.AmountInputRequest]) (*connect.Response[api.GoalResponse], error) {
	return c.adjustTarget.CallUnary(ctx, req)
}

func (c *navigationServiceClient) RequestDeletion(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.SettlementResponse], error) {
	return c.requestDeletion.CallUnary(ctx, req)
}

func (c *navigationServiceClient) Invite(ctx context.Context, req *connect.Request[api.InviteRequest]) (*connect.Response[api.GoalResponse], error) {
	return c.invite.CallUnary(ctx, req)
}
