package api

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Currency  string   `json:"currency"`
	Members   []string `json:"members"`
	CreatedBy string   `json:"created_by,omitempty"`
	CreatedAt int64    `json:"created_at"`
}

type Expense struct {
	ID           string            `json:"id"`
	GroupID      string            `json:"group_id"`
	Description  string            `json:"description"`
	PaidBy       string            `json:"paid_by"`
	Amount       string            `json:"amount"`
	Participants []string          `json:"participants"`
	Shares       map[string]string `json:"shares,omitempty"`
	CreatedBy    string            `json:"created_by,omitempty"`
	CreatedAt    int64             `json:"created_at"`
}

type Settlement struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Note      string `json:"note,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// MemberBalance is one member's position. NetBalance is positive when the
// member is owed money.
type MemberBalance struct {
	Name       string `json:"name"`
	NetBalance string `json:"net_balance"`
	TotalPaid  string `json:"total_paid"`
	TotalOwed  string `json:"total_owed"`
}

type CreateGroupRequest struct {
	Name     string   `json:"name"`
	Currency string   `json:"currency,omitempty"`
	Members  []string `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type AddExpenseRequest struct {
	GroupID      string            `json:"group_id"`
	Description  string            `json:"description"`
	PaidBy       string            `json:"paid_by"`
	Amount       string            `json:"amount"`
	Participants []string          `json:"participants"`
	Shares       map[string]string `json:"shares,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type RecordSettlementRequest struct {
	GroupID string `json:"group_id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
	Note    string `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	Currency       string           `json:"currency"`
	MemberBalances []*MemberBalance `json:"member_balances"`
	Payments       []*Payment       `json:"payments"`
}
