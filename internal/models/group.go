package models

// Group is a set of people who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Currency is an ISO code used when rendering amounts (e.g., "USD").
	Currency string

	// Members is the list of participant names in this group, in the order
	// they joined.
	Members []string

	// CreatedBy is the user ID that created the group, if any.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
