// Package settlement reduces a set of pairwise debts to a short list of
// payments.
//
// Debts are recorded in a BalanceGraph as directed edges between dense
// participant indices. A Planner collapses the graph into one net balance per
// participant and then greedily pairs the largest remaining creditor with the
// largest remaining debtor until every balance is zero.
//
// The greedy pass does not guarantee the fewest possible payments (that
// problem is NP-hard), but it never emits more than
// creditors+debtors-1 of them.
//
// Amounts are integers in the smallest currency unit.
package settlement
