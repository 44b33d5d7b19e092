package settlement

import (
	"fmt"
	"math"
)

// BalanceGraph holds how much each participant owes every other participant.
// capacity[u][v] is the total u owes v; it is independent of capacity[v][u].
type BalanceGraph struct {
	n        int
	capacity [][]int64
	// total is the sum of every cell; it bounds every net balance.
	total int64
}

// NewBalanceGraph allocates an empty graph for n participants.
// n == 0 is a valid, empty graph.
func NewBalanceGraph(n int) (*BalanceGraph, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: participant count %d, non-negative required", ErrInvalidSize, n)
	}

	capacity := make([][]int64, n)
	for i := range capacity {
		capacity[i] = make([]int64, n)
	}
	return &BalanceGraph{n: n, capacity: capacity}, nil
}

// Size returns the number of participants.
func (g *BalanceGraph) Size() int {
	return g.n
}

// AddEdge records that u owes v amount. Repeated edges accumulate.
// A zero amount is a no-op and a self-loop (u == v) never affects balances.
func (g *BalanceGraph) AddEdge(u, v int, amount int64) error {
	if u < 0 || u >= g.n || v < 0 || v >= g.n {
		return fmt.Errorf("%w: edge (%d, %d), indices must be in [0, %d)", ErrOutOfRange, u, v, g.n)
	}
	if amount < 0 {
		return fmt.Errorf("%w: %d, non-negative required", ErrInvalidAmount, amount)
	}
	if amount > math.MaxInt64-g.total {
		return fmt.Errorf("%w: %d overflows total volume %d", ErrInvalidAmount, amount, g.total)
	}

	g.capacity[u][v] += amount
	g.total += amount
	return nil
}

// Owed returns the accumulated amount u owes v, or 0 for indices out of range.
func (g *BalanceGraph) Owed(u, v int) int64 {
	if u < 0 || u >= g.n || v < 0 || v >= g.n {
		return 0
	}
	return g.capacity[u][v]
}

// NetBalances returns, for every participant, what they are owed minus what
// they owe. Positive means the participant should receive money.
func (g *BalanceGraph) NetBalances() []int64 {
	balances := make([]int64, g.n)
	for u := 0; u < g.n; u++ {
		for v := 0; v < g.n; v++ {
			balances[u] -= g.capacity[u][v]
			balances[v] += g.capacity[u][v]
		}
	}
	return balances
}
