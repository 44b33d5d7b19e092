package settlement

import (
	"cmp"
	"fmt"
	"slices"
)

// Edge is a debt: From owes To Amount.
type Edge struct {
	From   int
	To     int
	Amount int64
}

// Transaction is a single payment from Payer to Receiver.
type Transaction struct {
	Payer    int
	Receiver int
	Amount   int64
}

// Planner turns the debts of one BalanceGraph into settlement payments.
type Planner struct {
	graph *BalanceGraph
}

// NewPlanner builds a graph of n participants and applies edges in order.
// The first invalid edge aborts construction.
func NewPlanner(n int, edges []Edge) (*Planner, error) {
	graph, err := NewBalanceGraph(n)
	if err != nil {
		return nil, err
	}
	for i, e := range edges {
		if err := graph.AddEdge(e.From, e.To, e.Amount); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return &Planner{graph: graph}, nil
}

// Size returns the number of participants.
func (p *Planner) Size() int {
	return p.graph.Size()
}

// NetBalances returns the net balance of every participant.
func (p *Planner) NetBalances() []int64 {
	return p.graph.NetBalances()
}

// position is a participant with a non-zero balance still to be settled.
type position struct {
	id        int
	remaining int64
}

// MinimizeTransactions settles all net balances by repeatedly paying the
// largest remaining creditor from the largest remaining debtor.
//
// Participants with equal amounts keep index order, so the output is
// reproducible. Every transaction has a positive amount and distinct payer
// and receiver.
func (p *Planner) MinimizeTransactions() []Transaction {
	balances := p.graph.NetBalances()

	var creditors, debtors []position
	for id, b := range balances {
		switch {
		case b > 0:
			creditors = append(creditors, position{id: id, remaining: b})
		case b < 0:
			debtors = append(debtors, position{id: id, remaining: -b})
		}
	}

	byRemainingDesc := func(a, b position) int {
		return cmp.Compare(b.remaining, a.remaining)
	}
	slices.SortStableFunc(creditors, byRemainingDesc)
	slices.SortStableFunc(debtors, byRemainingDesc)

	var transactions []Transaction
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor, debtor := &creditors[i], &debtors[j]

		amount := min(creditor.remaining, debtor.remaining)
		transactions = append(transactions, Transaction{
			Payer:    debtor.id,
			Receiver: creditor.id,
			Amount:   amount,
		})

		creditor.remaining -= amount
		debtor.remaining -= amount

		if creditor.remaining == 0 {
			i++
		}
		if debtor.remaining == 0 {
			j++
		}
	}

	return transactions
}
