package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settlewise/internal/calculator"
	"github.com/mmynk/settlewise/internal/middleware"
	"github.com/mmynk/settlewise/internal/models"
	"github.com/mmynk/settlewise/internal/money"
	"github.com/mmynk/settlewise/internal/storage"
	"github.com/mmynk/settlewise/pkg/api"
	"github.com/mmynk/settlewise/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store    storage.Store
	observer PlanObserver
	currency string
}

// NewGroupService creates a new GroupService with the given storage backend.
// Groups created without a currency use currency. observer may be nil.
func NewGroupService(store storage.Store, observer PlanObserver, currency string) *GroupService {
	return &GroupService{store: store, observer: observer, currency: currency}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Msg.Currency))
	if currency == "" {
		currency = s.currency
	}

	group := &models.Group{
		Name:      name,
		Currency:  currency,
		Members:   trimNames(req.Msg.Members),
		CreatedBy: middleware.GetUserID(ctx),
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	apiGroups := make([]*api.Group, len(groups))
	for i, group := range groups {
		apiGroups[i] = groupToAPI(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: apiGroups}), nil
}

// DeleteGroup removes a group and everything recorded in it.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddExpense records an expense in a group. Anyone named on the expense who
// is not yet a member is added to the group.
func (s *GroupService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	msg := req.Msg
	slog.Info("AddExpense request received",
		"group_id", msg.GroupID,
		"paid_by", msg.PaidBy,
		"participants_count", len(msg.Participants),
	)

	group, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := expenseFromRequest(msg)
	if err != nil {
		return nil, err
	}
	expense.CreatedBy = middleware.GetUserID(ctx)

	if err := s.checkBalances(ctx, group, expense, nil); err != nil {
		slog.Warn("AddExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	// The store adds unknown names as members in the same transaction.
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	logNewMembers(group, expenseNames(expense))
	slog.Info("Expense added", "group_id", group.ID, "expense_id", expense.ID)
	return connect.NewResponse(&api.AddExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses lists a group's expenses, oldest first.
func (s *GroupService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	apiExpenses := make([]*api.Expense, len(expenses))
	for i, expense := range expenses {
		apiExpenses[i] = expenseToAPI(expense)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: apiExpenses}), nil
}

// DeleteExpense removes an expense.
func (s *GroupService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// RecordSettlement records a payment between two people in a group.
func (s *GroupService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	msg := req.Msg
	slog.Info("RecordSettlement request received",
		"group_id", msg.GroupID,
		"from", msg.From,
		"to", msg.To,
		"amount", msg.Amount,
	)

	from, to := strings.TrimSpace(msg.From), strings.TrimSpace(msg.To)
	if from == "" || to == "" {
		return nil, invalidArgument("from and to are required")
	}
	if from == to {
		return nil, invalidArgument("cannot settle with yourself")
	}

	amount, err := money.Parse(msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	if amount == 0 {
		return nil, invalidArgument("amount must be positive")
	}

	group, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	settlement := &models.Settlement{
		GroupID:   group.ID,
		From:      from,
		To:        to,
		Amount:    amount,
		CreatedBy: middleware.GetUserID(ctx),
		Note:      strings.TrimSpace(msg.Note),
	}
	if err := s.checkBalances(ctx, group, nil, settlement); err != nil {
		slog.Warn("RecordSettlement rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	logNewMembers(group, []string{from, to})

	slog.Info("Settlement recorded", "group_id", group.ID, "settlement_id", settlement.ID)
	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ListSettlements lists a group's recorded payments, newest first.
func (s *GroupService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID)

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	apiSettlements := make([]*api.Settlement, len(settlements))
	for i, settlement := range settlements {
		apiSettlements[i] = settlementToAPI(settlement)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: apiSettlements}), nil
}

// DeleteSettlement removes a recorded payment.
func (s *GroupService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	slog.Info("DeleteSettlement request received", "settlement_id", req.Msg.SettlementID)

	if err := s.store.DeleteSettlement(ctx, req.Msg.SettlementID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}

// GetGroupBalances returns every member's balance and the payments that
// settle the group.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	summary, err := s.Balances(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.GetGroupBalancesResponse{
		Currency:       summary.Group.Currency,
		MemberBalances: make([]*api.MemberBalance, len(summary.Balances)),
		Payments:       make([]*api.Payment, len(summary.Payments)),
	}
	for i, b := range summary.Balances {
		resp.MemberBalances[i] = &api.MemberBalance{
			Name:       b.Name,
			NetBalance: money.Format(b.NetBalance),
			TotalPaid:  money.Format(b.TotalPaid),
			TotalOwed:  money.Format(b.TotalOwed),
		}
	}
	for i, p := range summary.Payments {
		payment := paymentToAPI(p)
		resp.Payments[i] = &payment
	}

	slog.Info("GetGroupBalances successful",
		"group_id", summary.Group.ID,
		"members", len(summary.Balances),
		"payments", len(summary.Payments),
	)
	return connect.NewResponse(resp), nil
}

// GroupSummary is a group together with its derived balances.
type GroupSummary struct {
	Group    *models.Group
	Balances []calculator.MemberBalance
	Payments []calculator.DebtEdge
}

// Balances loads a group's expenses and settlements and computes its
// balances and suggested payments.
func (s *GroupService) Balances(ctx context.Context, groupID string) (*GroupSummary, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, settlements, err := s.activity(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances, debts, err := groupBalances(group, expenses, settlements)
	if err != nil {
		return nil, err
	}
	observePlan(s.observer, len(balances), len(debts))

	return &GroupSummary{Group: group, Balances: balances, Payments: debts}, nil
}

// checkBalances rejects an expense or settlement that would leave the group's
// balances uncomputable, such as one that overflows the group's total volume.
func (s *GroupService) checkBalances(ctx context.Context, group *models.Group, expense *models.Expense, settlement *models.Settlement) error {
	expenses, settlements, err := s.activity(ctx, group.ID)
	if err != nil {
		return err
	}
	if expense != nil {
		expenses = append(expenses, expense)
	}
	if settlement != nil {
		settlements = append(settlements, settlement)
	}
	_, _, err = groupBalances(group, expenses, settlements)
	return err
}

func (s *GroupService) activity(ctx context.Context, groupID string) ([]*models.Expense, []*models.Settlement, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	return expenses, settlements, nil
}

func groupBalances(group *models.Group, expenses []*models.Expense, settlements []*models.Settlement) ([]calculator.MemberBalance, []calculator.DebtEdge, error) {
	forBalance := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		forBalance[i] = calculator.ExpenseForBalance{
			PaidBy:       e.PaidBy,
			Amount:       e.Amount,
			Participants: e.Participants,
			Shares:       e.Shares,
		}
	}
	payments := make([]calculator.SettlementForBalance, len(settlements))
	for i, st := range settlements {
		payments[i] = calculator.SettlementForBalance{From: st.From, To: st.To, Amount: st.Amount}
	}
	return calculator.CalculateGroupBalances(group.Members, forBalance, payments)
}

func logNewMembers(group *models.Group, names []string) {
	if newMembers := findNewMembers(names, group.Members); len(newMembers) > 0 {
		slog.Info("Auto-added members to group", "group_id", group.ID, "members", newMembers)
	}
}

// findNewMembers returns names that are not already in existing, without
// duplicates.
func findNewMembers(names, existing []string) []string {
	seen := make(map[string]bool, len(existing)+len(names))
	for _, m := range existing {
		seen[m] = true
	}
	var newOnes []string
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		newOnes = append(newOnes, n)
	}
	return newOnes
}

func expenseFromRequest(msg *api.AddExpenseRequest) (*models.Expense, error) {
	paidBy := strings.TrimSpace(msg.PaidBy)
	if paidBy == "" {
		return nil, invalidArgument("paid_by is required")
	}

	amount, err := money.Parse(msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	if amount == 0 {
		return nil, invalidArgument("amount must be positive")
	}

	var shares map[string]int64
	if len(msg.Shares) > 0 {
		shares = make(map[string]int64, len(msg.Shares))
		for name, raw := range msg.Shares {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				return nil, invalidArgument("share names must not be blank")
			}
			if _, dup := shares[trimmed]; dup {
				return nil, toConnectError(fmt.Errorf("%w: %q", calculator.ErrDuplicateParticipant, trimmed))
			}
			share, err := money.Parse(raw)
			if err != nil {
				return nil, toConnectError(err)
			}
			shares[trimmed] = share
		}
	}

	expense := &models.Expense{
		GroupID:      msg.GroupID,
		Description:  strings.TrimSpace(msg.Description),
		PaidBy:       paidBy,
		Amount:       amount,
		Participants: trimNames(msg.Participants),
		Shares:       shares,
	}

	_, err = calculator.ExpenseShares(calculator.ExpenseForBalance{
		PaidBy:       expense.PaidBy,
		Amount:       expense.Amount,
		Participants: expense.Participants,
		Shares:       expense.Shares,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return expense, nil
}

// expenseNames lists everyone an expense mentions: payer first.
func expenseNames(expense *models.Expense) []string {
	names := append([]string{expense.PaidBy}, expense.Participants...)
	var extra []string
	for name := range expense.Shares {
		extra = append(extra, name)
	}
	slices.Sort(extra)
	return append(names, extra...)
}

func trimNames(names []string) []string {
	trimmed := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			trimmed = append(trimmed, n)
		}
	}
	return trimmed
}

func groupToAPI(group *models.Group) *api.Group {
	return &api.Group{
		ID:        group.ID,
		Name:      group.Name,
		Currency:  group.Currency,
		Members:   group.Members,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt,
	}
}

func expenseToAPI(expense *models.Expense) *api.Expense {
	var shares map[string]string
	if len(expense.Shares) > 0 {
		shares = make(map[string]string, len(expense.Shares))
		for name, amount := range expense.Shares {
			shares[name] = money.Format(amount)
		}
	}
	return &api.Expense{
		ID:           expense.ID,
		GroupID:      expense.GroupID,
		Description:  expense.Description,
		PaidBy:       expense.PaidBy,
		Amount:       money.Format(expense.Amount),
		Participants: expense.Participants,
		Shares:       shares,
		CreatedBy:    expense.CreatedBy,
		CreatedAt:    expense.CreatedAt,
	}
}

func settlementToAPI(settlement *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:        settlement.ID,
		GroupID:   settlement.GroupID,
		From:      settlement.From,
		To:        settlement.To,
		Amount:    money.Format(settlement.Amount),
		Note:      settlement.Note,
		CreatedBy: settlement.CreatedBy,
		CreatedAt: settlement.CreatedAt,
	}
}
