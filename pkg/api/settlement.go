package api

// Edge is a debt between two named participants: From owes To Amount.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// Payment is a suggested transfer that settles debt: From pays To Amount.
type Payment struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type PlanRequest struct {
	Names []string `json:"names"`
	Edges []Edge   `json:"edges"`
}

type PlanResponse struct {
	Transactions []Payment `json:"transactions"`
}
