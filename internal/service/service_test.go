package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/middleware"
	"github.com/mmynk/sharedgoals/internal/storage/memory"
	"github.com/mmynk/sharedgoals/pkg/api/apiconnect"
)

type testServer struct {
	goals    apiconnect.GoalServiceClient
	nav      apiconnect.NavigationServiceClient
	ledger   *ledger.Ledger
	recorder *fakeRecorder
}

type fakeRecorder struct {
	mu       sync.Mutex
	rejected map[string]int
}

func (r *fakeRecorder) Rejected(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[op+"/"+ledger.Kind(err)]++
}

func (r *fakeRecorder) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rejected[key]
}

// setupTestServer creates a test server with GoalService and
// NavigationService over a ledger seeded with the demo goals.
func setupTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := ledger.New(memory.New(), ledger.WithLogger(logger))
	if err := l.SeedDemo(context.Background()); err != nil {
		t.Fatalf("failed to seed ledger: %v", err)
	}

	rec := &fakeRecorder{rejected: make(map[string]int)}
	interceptors := connect.WithInterceptors(
		middleware.Identify("m1"),
		middleware.LoggingInterceptor(logger),
	)

	goalPath, goalHandler := apiconnect.NewGoalServiceHandler(NewGoalService(l, rec), interceptors)
	navPath, navHandler := apiconnect.NewNavigationServiceHandler(NewNavigationService(l, rec), interceptors)

	mux := http.NewServeMux()
	mux.Handle(goalPath, goalHandler)
	mux.Handle(navPath, navHandler)

	server := httptest.NewServer(mux)

	ts := &testServer{
		goals:    apiconnect.NewGoalServiceClient(http.DefaultClient, server.URL),
		nav:      apiconnect.NewNavigationServiceClient(http.DefaultClient, server.URL),
		ledger:   l,
		recorder: rec,
	}

	cleanup := func() {
		server.Close()
	}

	return ts, cleanup
}

// as sets the identity headers on a request.
func as[T any](req *connect.Request[T], memberID, sessionID string) *connect.Request[T] {
	if memberID != "" {
		req.Header().Set(middleware.MemberIDHeader, memberID)
	}
	if sessionID != "" {
		req.Header().Set(middleware.SessionIDHeader, sessionID)
	}
	return req
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}
