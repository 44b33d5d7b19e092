package models

// Expense is a purchase one member paid for and others share.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a short label (e.g., "Dinner", "Taxi").
	Description string

	// PaidBy is the name of the member who paid.
	PaidBy string

	// Amount is the total paid, in cents.
	Amount int64

	// Participants are the names sharing the expense. Without Shares the
	// amount is split equally among them.
	Participants []string

	// Shares optionally assigns an exact amount in cents to each participant.
	// The shares must add up to Amount.
	Shares map[string]int64

	// CreatedBy is the user ID who recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
