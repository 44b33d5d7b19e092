package calculator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoParticipants       = errors.New("must have at least one participant")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrNegativeAmount       = errors.New("amount must be non-negative")
	ErrSharesMismatch       = errors.New("shares must add up to the expense amount")
	ErrUnknownParticipant   = errors.New("unknown participant")
	ErrBlankParticipant     = errors.New("participant name must not be blank")
)

// SplitEqually divides amount cents among participants.
// Cents that do not divide evenly go one each to the first participants in
// list order, so the shares always add up to amount.
func SplitEqually(amount int64, participants []string) (map[string]int64, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	shares := make(map[string]int64, len(participants))
	for _, p := range participants {
		if isBlank(p) {
			return nil, ErrBlankParticipant
		}
		if _, exists := shares[p]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, p)
		}
		shares[p] = 0
	}

	count := int64(len(participants))
	base, remainder := amount/count, amount%count
	for i, p := range participants {
		shares[p] = base
		if int64(i) < remainder {
			shares[p]++
		}
	}

	return shares, nil
}

// SplitExact validates explicit per-participant shares against amount.
func SplitExact(amount int64, shares map[string]int64) (map[string]int64, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	if len(shares) == 0 {
		return nil, ErrNoParticipants
	}

	var sum int64
	result := make(map[string]int64, len(shares))
	for p, share := range shares {
		if isBlank(p) {
			return nil, ErrBlankParticipant
		}
		if share < 0 {
			return nil, fmt.Errorf("%w: share of %q is %d", ErrNegativeAmount, p, share)
		}
		if share > amount-sum {
			return nil, fmt.Errorf("%w: shares exceed %d", ErrSharesMismatch, amount)
		}
		sum += share
		result[p] = share
	}
	if sum != amount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSharesMismatch, sum, amount)
	}

	return result, nil
}

func isBlank(name string) bool {
	return strings.TrimSpace(name) == ""
}
