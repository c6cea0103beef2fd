package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"connectrpc.com/connect"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/middleware"
	"github.com/mmynk/sharedgoals/internal/navigation"
	"github.com/mmynk/sharedgoals/pkg/api"
	"github.com/mmynk/sharedgoals/pkg/api/apiconnect"
)

// Ensure NavigationService implements the Connect handler interface.
var _ apiconnect.NavigationServiceHandler = (*NavigationService)(nil)

// NavigationService exposes one navigation controller per view session.
// Sessions are created on first use and owned by the member that opened them.
// Idle sessions expire, and the least recently used one is dropped once the
// session cap is reached.
type NavigationService struct {
	ledger   *ledger.Ledger
	recorder Recorder
	opts     options

	mu       sync.Mutex
	sessions *expirable.LRU[string, *session]
}

type session struct {
	controller  *navigation.Controller
	unsubscribe func()
}

// NewNavigationService creates a NavigationService. rec may be nil.
func NewNavigationService(l *ledger.Ledger, rec Recorder, opts ...Option) *NavigationService {
	if rec == nil {
		rec = nopRecorder{}
	}
	s := &NavigationService{
		ledger:   l,
		recorder: rec,
		opts:     newOptions(opts),
	}
	s.sessions = expirable.NewLRU[string, *session](s.opts.maxSessions, s.evicted, s.opts.sessionTTL)
	return s
}

// session returns the controller of the calling session, creating it and
// subscribing it to ledger events on first use.
func (s *NavigationService) session(ctx context.Context) *navigation.Controller {
	sessionID := middleware.GetSessionID(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions.Get(sessionID); ok {
		// Re-adding restarts the idle timer.
		s.sessions.Add(sessionID, sess)
		return sess.controller
	}
	// An expired session may still be cached until the next sweep.
	s.sessions.Remove(sessionID)

	owner := s.opts.lookupMember(ctx, s.ledger, middleware.GetMemberID(ctx))
	c := navigation.NewController(s.ledger, owner, slog.Default().With("session_id", sessionID))
	s.sessions.Add(sessionID, &session{
		controller:  c,
		unsubscribe: s.ledger.Subscribe(c.HandleEvent),
	})

	slog.Info("Navigation session started", "session_id", sessionID, "member_id", c.Owner().ID)
	return c
}

// evicted detaches a dropped session from the ledger.
func (s *NavigationService) evicted(sessionID string, sess *session) {
	sess.unsubscribe()
	slog.Info("Navigation session ended", "session_id", sessionID, "member_id", sess.controller.Owner().ID)
}

func (s *NavigationService) respond(c *navigation.Controller, screen navigation.Screen) *connect.Response[api.ScreenResponse] {
	return connect.NewResponse(&api.ScreenResponse{Screen: screenToAPI(screen, c.Selected())})
}

// Current returns the active screen.
func (s *NavigationService) Current(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error) {
	c := s.session(ctx)
	screen, err := c.Current(ctx)
	if err != nil {
		return nil, fail(s.recorder, "Current", err)
	}
	return s.respond(c, screen), nil
}

// Navigate moves to the requested screen.
func (s *NavigationService) Navigate(ctx context.Context, req *connect.Request[api.NavigateRequest]) (*connect.Response[api.ScreenResponse], error) {
	c := s.session(ctx)

	target, ok := navigation.ScreenFor(navigation.Kind(req.Msg.Kind), req.Msg.GoalID)
	if !ok {
		return nil, fail(s.recorder, "Navigate", fmt.Errorf("%q: %w", req.Msg.Kind, errUnknownScreen))
	}

	screen, err := c.Navigate(ctx, target)
	if err != nil {
		return nil, fail(s.recorder, "Navigate", err, "kind", req.Msg.Kind, "goal_id", req.Msg.GoalID)
	}
	return s.respond(c, screen), nil
}

// Back follows the back edge of the active screen.
func (s *NavigationService) Back(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error) {
	c := s.session(ctx)
	screen, err := c.Back(ctx)
	if err != nil {
		return nil, fail(s.recorder, "Back", err)
	}
	return s.respond(c, screen), nil
}

// SelectAccountType picks the account type to create.
func (s *NavigationService) SelectAccountType(ctx context.Context, req *connect.Request[api.SelectAccountTypeRequest]) (*connect.Response[api.ScreenResponse], error) {
	c := s.session(ctx)
	screen, err := c.SelectAccountType(req.Msg.AccountType)
	if err != nil {
		return nil, fail(s.recorder, "SelectAccountType", err, "account_type", req.Msg.AccountType)
	}
	return s.respond(c, screen), nil
}

// UpdateDraft sets the create-goal wizard fields present in the request.
func (s *NavigationService) UpdateDraft(ctx context.Context, req *connect.Request[api.UpdateDraftRequest]) (*connect.Response[api.ScreenResponse], error) {
	c := s.session(ctx)

	screen, err := c.Current(ctx)
	if err == nil && req.Msg.Name != nil {
		screen, err = c.SetDraftName(*req.Msg.Name)
	}
	if err == nil && req.Msg.Target != nil {
		screen, err = c.SetDraftTarget(*req.Msg.Target)
	}
	if err == nil && req.Msg.TargetDate != nil {
		screen, err = c.SetDraftDate(*req.Msg.TargetDate)
	}
	if err != nil {
		return nil, fail(s.recorder, "UpdateDraft", err)
	}
	return s.respond(c, screen), nil
}

// Next advances the create-goal wizard.
func (s *NavigationService) Next(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error) {
	c := s.session(ctx)
	screen, err := c.Next(ctx)
	if err != nil {
		return nil, fail(s.recorder, "Next", err)
	}
	return s.respond(c, screen), nil
}

// SubmitAmount contributes or withdraws the typed amount, depending on the
// active screen.
func (s *NavigationService) SubmitAmount(ctx context.Context, req *connect.Request[api.AmountInputRequest]) (*connect.Response[api.ScreenResponse], error) {
	c := s.session(ctx)
	if _, err := c.SubmitAmount(ctx, req.Msg.Amount); err != nil {
		return nil, fail(s.recorder, "SubmitAmount", err, "amount", req.Msg.Amount)
	}
	screen, err := c.Current(ctx)
	if err != nil {
		return nil, fail(s.recorder, "SubmitAmount", err)
	}
	return s.respond(c, screen), nil
}

// Done closes an amount or invite screen.
func (s *NavigationService) Done(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ScreenResponse], error) {
	c := s.session(ctx)
	screen, err := c.Done(ctx)
	if err != nil {
		return nil, fail(s.recorder, "Done", err)
	}
	return s.respond(c, screen), nil
}

// AdjustTarget changes the target of the goal on the detail screen.
func (s *NavigationService) AdjustTarget(ctx context.Context, req *connect.Request[api.AmountInputRequest]) (*connect.Response[api.GoalResponse], error) {
	c := s.session(ctx)
	goal, err := c.AdjustTarget(ctx, req.Msg.Amount)
	if err != nil {
		return nil, fail(s.recorder, "AdjustTarget", err, "amount", req.Msg.Amount)
	}
	return connect.NewResponse(&api.GoalResponse{Goal: goalToAPI(goal)}), nil
}

// RequestDeletion starts settling the goal on the detail screen.
func (s *NavigationService) RequestDeletion(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.SettlementResponse], error) {
	c := s.session(ctx)
	settlement, err := c.RequestDeletion(ctx)
	if err != nil {
		return nil, fail(s.recorder, "RequestDeletion", err)
	}
	return connect.NewResponse(&api.SettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// Invite adds a member to the goal on the invite screen.
func (s *NavigationService) Invite(ctx context.Context, req *connect.Request[api.InviteRequest]) (*connect.Response[api.GoalResponse], error) {
	c := s.session(ctx)
	goal, err := c.Invite(ctx, memberFromAPI(req.Msg.Member))
	if err != nil {
		return nil, fail(s.recorder, "Invite", err, "name", req.Msg.Member.Name)
	}
	return connect.NewResponse(&api.GoalResponse{Goal: goalToAPI(goal)}), nil
}
