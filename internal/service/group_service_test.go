package service

import (
	"context"
	"io"
	"net/http"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settlewise/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	srv := setupTestServer(t)

	group := srv.createGroup(t, "  Roommates ", "Alice", " Bob ", "", "Charlie")

	assert.NotEmpty(t, group.ID)
	assert.Equal(t, "Roommates", group.Name)
	assert.Equal(t, testCurrency, group.Currency)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, group.Members)
	assert.NotZero(t, group.CreatedAt)
	assert.Empty(t, group.CreatedBy, "anonymous group should have no creator")
}

func TestCreateGroupCurrency(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := srv.Groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:     "Trip",
		Currency: "jpy",
		Members:  []string{"Ken"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "JPY", resp.Msg.Group.Currency)
}

func TestCreateGroupRequiresName(t *testing.T) {
	srv := setupTestServer(t)

	_, err := srv.Groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name: "   ",
	}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestGetGroup(t *testing.T) {
	srv := setupTestServer(t)
	created := srv.createGroup(t, "Work Lunch", "Diana", "Eve")

	resp, err := srv.Groups.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{
		GroupID: created.ID,
	}))
	require.NoError(t, err)
	assert.Equal(t, created, resp.Msg.Group)

	_, err = srv.Groups.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{
		GroupID: "missing",
	}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestListAndDeleteGroups(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	first := srv.createGroup(t, "First", "A")
	srv.createGroup(t, "Second", "B")

	resp, err := srv.Groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Groups, 2)

	_, err = srv.Groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: first.ID}))
	require.NoError(t, err)
	_, err = srv.Groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: first.ID}))
	expectCode(t, err, connect.CodeNotFound)

	resp, err = srv.Groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Groups, 1)
	assert.Equal(t, "Second", resp.Msg.Groups[0].Name)
}

func TestGroupBalances(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	group := srv.createGroup(t, "Cabin", "Alice", "Bob", "Charlie")

	srv.addExpense(t, &api.AddExpenseRequest{
		GroupID:      group.ID,
		Description:  "Groceries",
		PaidBy:       "Alice",
		Amount:       "90",
		Participants: []string{"Alice", "Bob", "Charlie"},
	})
	srv.addExpense(t, &api.AddExpenseRequest{
		GroupID:      group.ID,
		Description:  "Firewood",
		PaidBy:       "Bob",
		Amount:       "30.00",
		Participants: []string{"Alice", "Bob", "Dave"},
	})

	got := srv.balances(t, group.ID)
	assert.Equal(t, testCurrency, got.Currency)
	assert.Equal(t, []*api.MemberBalance{
		{Name: "Alice", NetBalance: "50.00", TotalPaid: "90.00", TotalOwed: "40.00"},
		{Name: "Bob", NetBalance: "-10.00", TotalPaid: "30.00", TotalOwed: "40.00"},
		{Name: "Charlie", NetBalance: "-30.00", TotalPaid: "0.00", TotalOwed: "30.00"},
		{Name: "Dave", NetBalance: "-10.00", TotalPaid: "0.00", TotalOwed: "10.00"},
	}, got.MemberBalances)
	assert.Equal(t, []*api.Payment{
		{From: "Charlie", To: "Alice", Amount: "30.00"},
		{From: "Bob", To: "Alice", Amount: "10.00"},
		{From: "Dave", To: "Alice", Amount: "10.00"},
	}, got.Payments)

	// Dave was only named on an expense.
	assert.Equal(t, []string{"Alice", "Bob", "Charlie", "Dave"}, srv.members(t, group.ID))

	recorded, err := srv.Groups.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
		GroupID: group.ID,
		From:    "Charlie",
		To:      "Alice",
		Amount:  "30",
		Note:    "cash",
	}))
	require.NoError(t, err)
	assert.Equal(t, "30.00", recorded.Msg.Settlement.Amount)
	assert.Equal(t, "cash", recorded.Msg.Settlement.Note)

	got = srv.balances(t, group.ID)
	assert.Equal(t, []*api.Payment{
		{From: "Bob", To: "Alice", Amount: "10.00"},
		{From: "Dave", To: "Alice", Amount: "10.00"},
	}, got.Payments)
	assert.Equal(t, "0.00", got.MemberBalances[2].NetBalance, "Charlie should be settled")
}

func TestGroupBalancesEmptyGroup(t *testing.T) {
	srv := setupTestServer(t)
	group := srv.createGroup(t, "Quiet", "Alice", "Bob")

	got := srv.balances(t, group.ID)
	assert.Empty(t, got.Payments)
	for _, b := range got.MemberBalances {
		assert.Equal(t, "0.00", b.NetBalance, b.Name)
	}
}

func TestAddExpenseWithShares(t *testing.T) {
	srv := setupTestServer(t)
	group := srv.createGroup(t, "Dinner", "Alice", "Bob")

	expense := srv.addExpense(t, &api.AddExpenseRequest{
		GroupID:      group.ID,
		Description:  "Sushi",
		PaidBy:       "Alice",
		Amount:       "30",
		Participants: []string{"Alice", "Bob"},
		Shares:       map[string]string{"Alice": "10", "Bob": "20"},
	})
	assert.Equal(t, map[string]string{"Alice": "10.00", "Bob": "20.00"}, expense.Shares)

	resp, err := srv.Groups.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Expenses, 1)
	assert.Equal(t, expense, resp.Msg.Expenses[0])

	assert.Equal(t, []*api.Payment{{From: "Bob", To: "Alice", Amount: "20.00"}}, srv.balances(t, group.ID).Payments)
}

func TestAddExpenseValidation(t *testing.T) {
	srv := setupTestServer(t)
	group := srv.createGroup(t, "Validation", "Alice", "Bob")

	tests := []struct {
		name string
		req  *api.AddExpenseRequest
		code connect.Code
	}{
		{
			name: "unknown group",
			req:  &api.AddExpenseRequest{GroupID: "missing", PaidBy: "Alice", Amount: "1", Participants: []string{"Alice"}},
			code: connect.CodeNotFound,
		},
		{
			name: "missing payer",
			req:  &api.AddExpenseRequest{GroupID: group.ID, Amount: "1", Participants: []string{"Alice"}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "malformed amount",
			req:  &api.AddExpenseRequest{GroupID: group.ID, PaidBy: "Alice", Amount: "ten", Participants: []string{"Alice"}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "negative amount",
			req:  &api.AddExpenseRequest{GroupID: group.ID, PaidBy: "Alice", Amount: "-5", Participants: []string{"Alice"}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "zero amount",
			req:  &api.AddExpenseRequest{GroupID: group.ID, PaidBy: "Alice", Amount: "0", Participants: []string{"Alice"}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "no participants",
			req:  &api.AddExpenseRequest{GroupID: group.ID, PaidBy: "Alice", Amount: "5"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "duplicate participants",
			req:  &api.AddExpenseRequest{GroupID: group.ID, PaidBy: "Alice", Amount: "5", Participants: []string{"Bob", "Bob"}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "shares do not add up",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, PaidBy: "Alice", Amount: "5",
				Shares: map[string]string{"Alice": "1", "Bob": "1"},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "blank share name",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, PaidBy: "Alice", Amount: "5.00",
				Shares: map[string]string{"Bob": "5.00", "  ": "0"},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "share names equal after trimming",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, PaidBy: "Alice", Amount: "5.00",
				Shares: map[string]string{"Bob": "5.00", " Bob": "5.00"},
			},
			code: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.Groups.AddExpense(context.Background(), connect.NewRequest(tt.req))
			expectCode(t, err, tt.code)
		})
	}

	// Rejected expenses must not add members or break the group.
	assert.Equal(t, []string{"Alice", "Bob"}, srv.members(t, group.ID))
	assert.Empty(t, srv.balances(t, group.ID).Payments)
	assert.Equal(t, http.StatusOK, srv.statementStatus(t, group.ID))
}

func TestGroupTotalOverflowIsRejected(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	group := srv.createGroup(t, "Big Spenders", "A", "B")

	huge := &api.AddExpenseRequest{
		GroupID: group.ID, PaidBy: "A", Amount: "50000000000000000.00", Participants: []string{"B"},
	}
	srv.addExpense(t, huge)

	_, err := srv.Groups.AddExpense(ctx, connect.NewRequest(huge))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = srv.Groups.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
		GroupID: group.ID, From: "B", To: "C", Amount: "50000000000000000.00",
	}))
	expectCode(t, err, connect.CodeInvalidArgument)

	// The group stays readable after the rejected writes.
	list, err := srv.Groups.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Expenses, 1)
	assert.Equal(t, []*api.Payment{
		{From: "B", To: "A", Amount: "50000000000000000.00"},
	}, srv.balances(t, group.ID).Payments)
	assert.Equal(t, []string{"A", "B"}, srv.members(t, group.ID), "rejected settlement must not add C")
	assert.Equal(t, http.StatusOK, srv.statementStatus(t, group.ID))
}

func TestRecordSettlementValidation(t *testing.T) {
	srv := setupTestServer(t)
	group := srv.createGroup(t, "Validation", "Alice", "Bob")

	tests := []struct {
		name string
		req  *api.RecordSettlementRequest
		code connect.Code
	}{
		{"self payment", &api.RecordSettlementRequest{GroupID: group.ID, From: "Alice", To: "Alice", Amount: "1"}, connect.CodeInvalidArgument},
		{"missing party", &api.RecordSettlementRequest{GroupID: group.ID, From: "Alice", Amount: "1"}, connect.CodeInvalidArgument},
		{"zero amount", &api.RecordSettlementRequest{GroupID: group.ID, From: "Alice", To: "Bob", Amount: "0.00"}, connect.CodeInvalidArgument},
		{"unknown group", &api.RecordSettlementRequest{GroupID: "missing", From: "Alice", To: "Bob", Amount: "1"}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.Groups.RecordSettlement(context.Background(), connect.NewRequest(tt.req))
			expectCode(t, err, tt.code)
		})
	}
}

func TestDeleteExpenseAndSettlement(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	group := srv.createGroup(t, "Deletes", "Alice", "Bob")

	expense := srv.addExpense(t, &api.AddExpenseRequest{
		GroupID: group.ID, PaidBy: "Alice", Amount: "10", Participants: []string{"Alice", "Bob"},
	})
	settled, err := srv.Groups.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
		GroupID: group.ID, From: "Bob", To: "Alice", Amount: "5",
	}))
	require.NoError(t, err)

	list, err := srv.Groups.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Settlements, 1)
	assert.Equal(t, settled.Msg.Settlement.ID, list.Msg.Settlements[0].ID)

	_, err = srv.Groups.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: expense.ID}))
	require.NoError(t, err)
	_, err = srv.Groups.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: expense.ID}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = srv.Groups.DeleteSettlement(ctx, connect.NewRequest(&api.DeleteSettlementRequest{SettlementID: settled.Msg.Settlement.ID}))
	require.NoError(t, err)
	_, err = srv.Groups.DeleteSettlement(ctx, connect.NewRequest(&api.DeleteSettlementRequest{SettlementID: settled.Msg.Settlement.ID}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = srv.Groups.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: "missing"}))
	expectCode(t, err, connect.CodeNotFound)
	_, err = srv.Groups.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{GroupID: "missing"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestCreatedByFromToken(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	registered, err := srv.Auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "correct-horse",
	}))
	require.NoError(t, err)

	req := connect.NewRequest(&api.CreateGroupRequest{Name: "Mine", Members: []string{"Alice"}})
	req.Header().Set("Authorization", "Bearer "+registered.Msg.Token)
	resp, err := srv.Groups.CreateGroup(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, registered.Msg.User.ID, resp.Msg.Group.CreatedBy)

	bad := connect.NewRequest(&api.CreateGroupRequest{Name: "Nope"})
	bad.Header().Set("Authorization", "Bearer not-a-token")
	_, err = srv.Groups.CreateGroup(ctx, bad)
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestStatementHandler(t *testing.T) {
	srv := setupTestServer(t)
	group := srv.createGroup(t, "Statement", "Alice", "Bob")
	srv.addExpense(t, &api.AddExpenseRequest{
		GroupID: group.ID, PaidBy: "Alice", Amount: "12.50", Participants: []string{"Bob"},
	})

	resp, err := http.Get(srv.URL + "/groups/" + group.ID + "/statement.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Regexp(t, `^%PDF-`, string(body[:min(len(body), 16)]))

	assert.Equal(t, http.StatusNotFound, srv.statementStatus(t, "missing"))
}

func TestFindNewMembers(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		existing []string
		want     []string
	}{
		{"all known", []string{"A", "B"}, []string{"A", "B"}, nil},
		{"new in order", []string{"C", "A", "D"}, []string{"A"}, []string{"C", "D"}},
		{"duplicates and blanks", []string{"C", "", "C"}, nil, []string{"C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findNewMembers(tt.names, tt.existing))
		})
	}
}
