package domain

import "time"

type MealTag string

const (
	MealBreakfast MealTag = "breakfast"
	MealLunch     MealTag = "lunch"
	MealDinner    MealTag = "dinner"
)

// Slot is the fixed wall-clock window of a meal.
func (m MealTag) Slot() string {
	switch m {
	case MealBreakfast:
		return "07:00-09:00"
	case MealLunch:
		return "11:30-13:30"
	case MealDinner:
		return "18:00-20:00"
	}
	return ""
}

type Segment struct {
	Name            string   `json:"name"`
	Address         string   `json:"address,omitempty"`
	Category        Category `json:"category"`
	DurationMin     int      `json:"duration_min"`
	TravelTimeMin   int      `json:"travel_time_min,omitempty"`
	TravelToNextMin *int     `json:"travel_time_to_next_min,omitempty"`
	DistanceToNextM *int     `json:"distance_to_next_m,omitempty"`
	Meal            MealTag  `json:"meal_type,omitempty"`
	MealSlot        string   `json:"meal_time_slot,omitempty"`
	IsMeal          bool     `json:"is_meal"`
	Cost            int64    `json:"estimated_cost_vnd"`
	Score           float64  `json:"score"`
	Rating          float64  `json:"rating,omitempty"`
	Votes           int      `json:"votes,omitempty"`
	Coords          *Coords  `json:"coordinates,omitempty"`
}

type Day struct {
	Date     string    `json:"date"`
	Hotel    *Hotel    `json:"hotel,omitempty"`
	Segments []Segment `json:"segments"`
}

type Hotel struct {
	Name           string  `json:"name"`
	Address        string  `json:"address,omitempty"`
	Coords         *Coords `json:"coordinates,omitempty"`
	Rating         float64 `json:"rating"`
	Reviews        int     `json:"reviews"`
	PricePerNight  int64   `json:"price"`
	BudgetPerNight float64 `json:"budget_per_night,omitempty"`
	Nights         int     `json:"nights,omitempty"`
	TotalCost      int64   `json:"total_cost_vnd,omitempty"`
	ValueScore     float64 `json:"value_score"`
}

type TransportOption struct {
	Carrier   string `json:"carrier"`
	Departure string `json:"departure,omitempty"`
	Arrival   string `json:"arrival,omitempty"`
	Price     int64  `json:"price"`
	Duration  int    `json:"duration_min,omitempty"`
	Stops     int    `json:"stops"`
}

type BudgetAllocation struct {
	Hotel      int64 `json:"hotel"`
	Activities int64 `json:"activities"`
	Food       int64 `json:"food"`
	Transport  int64 `json:"transport"`
}

type Verdict string

const (
	Pass    Verdict = "PASS"
	Partial Verdict = "PARTIAL"
	Fail    Verdict = "FAIL"
)

type CheckResult struct {
	Name    string  `json:"name"`
	Verdict Verdict `json:"verdict"`
	Detail  string  `json:"detail,omitempty"`
}

type ComplianceReport struct {
	Checks         []CheckResult `json:"checks"`
	MissingItems   []string      `json:"missing_items"`
	FixSuggestions []string      `json:"fix_suggestions"`
	Score          int           `json:"final_confidence_score"`
}

// Check returns the verdict of a named check, or "" when absent.
func (r ComplianceReport) Check(name string) Verdict {
	for _, c := range r.Checks {
		if c.Name == name {
			return c.Verdict
		}
	}
	return ""
}

// Violation is a pair of back-to-back meals the repairer could not separate.
type Violation struct {
	Day    int    `json:"day"`
	First  string `json:"first"`
	Second string `json:"second"`
}

type Itinerary struct {
	ID            string            `json:"itinerary_id"`
	Destination   string            `json:"destination"`
	StartDate     string            `json:"start_date"`
	Energy        Energy            `json:"energy"`
	SpendingStyle SpendingStyle     `json:"spending_style"`
	Preferences   []string          `json:"preferences,omitempty"`
	Budget        BudgetAllocation  `json:"budget_allocation"`
	Hotel         *Hotel            `json:"hotel,omitempty"`
	Transport     []TransportOption `json:"transportation,omitempty"`
	Activities    []Candidate       `json:"activities"`
	Days          []Day             `json:"days"`
	Violations    []Violation       `json:"violations,omitempty"`
	Compliance    ComplianceReport  `json:"compliance_report"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ItinerarySummary is the list view of a stored itinerary.
type ItinerarySummary struct {
	ID              string    `json:"itinerary_id"`
	Destination     string    `json:"destination"`
	StartDate       string    `json:"start_date"`
	Days            int       `json:"days"`
	Energy          Energy    `json:"energy"`
	HotelName       string    `json:"hotel_name,omitempty"`
	ComplianceScore int       `json:"compliance_score"`
	CreatedAt       time.Time `json:"created_at"`
}

type ItineraryQuery struct {
	Destination string
	Limit       int
}
