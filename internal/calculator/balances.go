package calculator

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/mmynk/settlewise/internal/settlement"
)

// ExpenseForBalance is an expense with the minimal information needed for
// balance calculations.
type ExpenseForBalance struct {
	PaidBy       string
	Amount       int64
	Participants []string
	// Shares, when set, replaces the equal split over Participants.
	Shares map[string]int64
}

// SettlementForBalance is a recorded payment with the minimal information
// needed for balance calculations.
type SettlementForBalance struct {
	From   string // who paid (debtor settling up)
	To     string // who received (creditor being paid)
	Amount int64
}

// MemberBalance is the balance of one group member, in cents.
type MemberBalance struct {
	Name       string
	NetBalance int64 // Positive = owed money, Negative = owes money
	TotalPaid  int64
	TotalOwed  int64
}

// DebtEdge is a payment that settles part of the group's debts.
type DebtEdge struct {
	From   string // Person who pays
	To     string // Person who is paid
	Amount int64
}

// NamedEdge is a debt between two named participants: From owes To.
type NamedEdge struct {
	From   string
	To     string
	Amount int64
}

// CalculateGroupBalances computes member balances across expenses and
// settlements and the payments that clear them.
//
// Each expense makes every participant owe the payer their share; the payer's
// own share is recorded as a self-debt and cancels out. Each settlement From->To
// is recorded as To owing From, which moves both balances toward zero.
// Members come first in the result, followed by any other name in order of
// appearance.
func CalculateGroupBalances(members []string, expenses []ExpenseForBalance, settlements []SettlementForBalance) ([]MemberBalance, []DebtEdge, error) {
	roster := NewRoster(members...)
	var edges []settlement.Edge
	paid := make(map[int]int64)
	owed := make(map[int]int64)

	for i, expense := range expenses {
		if isBlank(expense.PaidBy) {
			return nil, nil, fmt.Errorf("expense %d: payer: %w", i, ErrBlankParticipant)
		}

		shares, err := ExpenseShares(expense)
		if err != nil {
			return nil, nil, fmt.Errorf("expense %d: %w", i, err)
		}

		payer := roster.Add(expense.PaidBy)
		paid[payer] += expense.Amount

		for _, name := range shareOrder(expense) {
			participant := roster.Add(name)
			if participant < 0 {
				return nil, nil, fmt.Errorf("expense %d: %w", i, ErrBlankParticipant)
			}
			owed[participant] += shares[name]
			edges = append(edges, settlement.Edge{From: participant, To: payer, Amount: shares[name]})
		}
	}

	for i, s := range settlements {
		if isBlank(s.From) || isBlank(s.To) {
			return nil, nil, fmt.Errorf("settlement %d: both parties: %w", i, ErrBlankParticipant)
		}
		if s.Amount < 0 {
			return nil, nil, fmt.Errorf("settlement %d: %w: %d", i, ErrNegativeAmount, s.Amount)
		}
		from, to := roster.Add(s.From), roster.Add(s.To)
		paid[from] += s.Amount
		owed[to] += s.Amount
		edges = append(edges, settlement.Edge{From: to, To: from, Amount: s.Amount})
	}

	planner, err := settlement.NewPlanner(roster.Len(), edges)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build balance graph: %w", err)
	}

	net := planner.NetBalances()
	balances := make([]MemberBalance, roster.Len())
	for idx := range balances {
		balances[idx] = MemberBalance{
			Name:       roster.Name(idx),
			NetBalance: net[idx],
			TotalPaid:  paid[idx],
			TotalOwed:  owed[idx],
		}
	}

	debts := namedTransactions(roster, planner.MinimizeTransactions())

	slog.Debug("Group balances calculated",
		"members", roster.Len(),
		"expenses", len(expenses),
		"settlements", len(settlements),
		"payments", len(debts),
	)

	return balances, debts, nil
}

// Plan settles debts between named participants. Every edge must reference a
// name from names.
func Plan(names []string, edges []NamedEdge) ([]DebtEdge, error) {
	roster := NewRoster(names...)
	if roster.Len() != len(names) {
		return nil, fmt.Errorf("%w: names must be unique and non-empty", ErrDuplicateParticipant)
	}

	indexed := make([]settlement.Edge, len(edges))
	for i, e := range edges {
		from, err := roster.mustIndex(e.From)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		to, err := roster.mustIndex(e.To)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		indexed[i] = settlement.Edge{From: from, To: to, Amount: e.Amount}
	}

	planner, err := settlement.NewPlanner(roster.Len(), indexed)
	if err != nil {
		return nil, err
	}
	return namedTransactions(roster, planner.MinimizeTransactions()), nil
}

// ExpenseShares returns how much each participant owes for expense.
func ExpenseShares(expense ExpenseForBalance) (map[string]int64, error) {
	if len(expense.Shares) > 0 {
		return SplitExact(expense.Amount, expense.Shares)
	}
	return SplitEqually(expense.Amount, expense.Participants)
}

// shareOrder returns the participants of an expense in a stable order so that
// roster indices do not depend on map iteration.
func shareOrder(expense ExpenseForBalance) []string {
	if len(expense.Shares) == 0 {
		return expense.Participants
	}
	order := make([]string, 0, len(expense.Shares))
	seen := make(map[string]bool, len(expense.Shares))
	for _, p := range expense.Participants {
		if _, ok := expense.Shares[p]; ok && !seen[p] {
			order = append(order, p)
			seen[p] = true
		}
	}
	var rest []string
	for p := range expense.Shares {
		if !seen[p] {
			rest = append(rest, p)
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}

func namedTransactions(roster *Roster, txs []settlement.Transaction) []DebtEdge {
	debts := make([]DebtEdge, len(txs))
	for i, tx := range txs {
		debts[i] = DebtEdge{
			From:   roster.Name(tx.Payer),
			To:     roster.Name(tx.Receiver),
			Amount: tx.Amount,
		}
	}
	return debts
}
