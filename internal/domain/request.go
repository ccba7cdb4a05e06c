package domain

// PlanRequest carries the hard and soft constraints of one planning call.
type PlanRequest struct {
	Destination string        `json:"destination"`
	Origin      string        `json:"origin,omitempty"`
	StartDate   string        `json:"date_start"`
	EndDate     string        `json:"date_end"`
	BudgetVND   int64         `json:"budget_vnd"`
	Style       SpendingStyle `json:"spending_style"`
	Energy      Energy        `json:"energy"`
	Interests   []string      `json:"interests,omitempty"`
	LongTerm    []string      `json:"long_term_preferences,omitempty"`
}

// Preferences is what the preference-fit oracle scores a candidate against.
type Preferences struct {
	Interests []string      `json:"interests"`
	LongTerm  []string      `json:"long_term"`
	Energy    Energy        `json:"energy"`
	Style     SpendingStyle `json:"spending_style"`
}

type HotelQuery struct {
	City     string
	CheckIn  string
	CheckOut string
	Budget   float64
	Near     Coords
	Adults   int
	Limit    int
}

type TransportQuery struct {
	Origin      string
	Destination string
	Outbound    string
	Return      string
	Adults      int
}
