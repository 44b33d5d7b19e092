package settlement

import "errors"

var (
	// ErrInvalidSize is returned when a graph is created with a negative
	// participant count.
	ErrInvalidSize = errors.New("settlement: invalid size")

	// ErrOutOfRange is returned when an edge references a participant index
	// outside [0, n).
	ErrOutOfRange = errors.New("settlement: participant index out of range")

	// ErrInvalidAmount is returned for negative amounts, or for amounts that
	// would push the graph's total volume past the int64 range.
	ErrInvalidAmount = errors.New("settlement: invalid amount")
)
