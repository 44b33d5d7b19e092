package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/settlewise/internal/auth"
	"github.com/mmynk/settlewise/internal/metrics"
	"github.com/mmynk/settlewise/internal/middleware"
	"github.com/mmynk/settlewise/internal/storage/sqlite"
	"github.com/mmynk/settlewise/pkg/api"
	"github.com/mmynk/settlewise/pkg/api/apiconnect"
)

const testCurrency = "EUR"

// testServer runs every service against a temp SQLite database.
type testServer struct {
	URL        string
	Groups     apiconnect.GroupServiceClient
	Settlement apiconnect.SettlementServiceClient
	Auth       apiconnect.AuthServiceClient
	Metrics    *metrics.Metrics
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("service-test-secret-key", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	m := metrics.New()

	groupSvc := NewGroupService(store, m, testCurrency)
	interceptors := connect.WithInterceptors(
		m.Interceptor(),
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewGroupServiceHandler(groupSvc, interceptors))
	mux.Handle(apiconnect.NewSettlementServiceHandler(NewSettlementService(m), interceptors))
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(StatementPattern, groupSvc.StatementHandler())

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		URL:        server.URL,
		Groups:     apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		Settlement: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		Auth:       apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		Metrics:    m,
	}
}

func (s *testServer) createGroup(t *testing.T, name string, members ...string) *api.Group {
	t.Helper()
	resp, err := s.Groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:    name,
		Members: members,
	}))
	require.NoError(t, err, "CreateGroup failed")
	return resp.Msg.Group
}

func (s *testServer) addExpense(t *testing.T, req *api.AddExpenseRequest) *api.Expense {
	t.Helper()
	resp, err := s.Groups.AddExpense(context.Background(), connect.NewRequest(req))
	require.NoError(t, err, "AddExpense failed")
	return resp.Msg.Expense
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	require.Error(t, err, "expected %v error", want)
	require.Equal(t, want, connect.CodeOf(err), "err: %v", err)
}

func (s *testServer) balances(t *testing.T, groupID string) *api.GetGroupBalancesResponse {
	t.Helper()
	resp, err := s.Groups.GetGroupBalances(context.Background(), connect.NewRequest(&api.GetGroupBalancesRequest{GroupID: groupID}))
	require.NoError(t, err, "GetGroupBalances failed")
	return resp.Msg
}

func (s *testServer) members(t *testing.T, groupID string) []string {
	t.Helper()
	resp, err := s.Groups.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
	require.NoError(t, err, "GetGroup failed")
	return resp.Msg.Group.Members
}

func (s *testServer) statementStatus(t *testing.T, groupID string) int {
	t.Helper()
	resp, err := http.Get(s.URL + "/groups/" + groupID + "/statement.pdf")
	require.NoError(t, err, "GET statement failed")
	resp.Body.Close()
	return resp.StatusCode
}
