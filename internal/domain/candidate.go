package domain

import "strings"

type Category string

const (
	CategoryFood       Category = "food"
	CategoryDrink      Category = "drink"
	CategoryCoffee     Category = "coffee" // legacy alias of drink
	CategoryAttraction Category = "attraction"
	CategoryMuseum     Category = "museum"
	CategoryPark       Category = "park"
	CategoryShopping   Category = "shopping"
	CategoryLandmark   Category = "landmark"
	CategoryViewpoint  Category = "viewpoint"
	CategoryNatural    Category = "natural"
	CategoryTemple     Category = "temple"
	CategoryCulture    Category = "culture"
)

func (c Category) IsFood() bool  { return c == CategoryFood }
func (c Category) IsDrink() bool { return c == CategoryDrink || c == CategoryCoffee }

// IsOther reports whether c is neither a meal nor a drink spot.
func (c Category) IsOther() bool { return !c.IsFood() && !c.IsDrink() }

type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// ParseEnergy maps free-form input to a known level; anything else is medium.
func ParseEnergy(s string) Energy {
	switch Energy(strings.ToLower(strings.TrimSpace(s))) {
	case EnergyLow:
		return EnergyLow
	case EnergyHigh:
		return EnergyHigh
	default:
		return EnergyMedium
	}
}

type SpendingStyle string

const (
	StyleBudget   SpendingStyle = "budget"
	StyleBalanced SpendingStyle = "balanced"
	StylePremium  SpendingStyle = "premium"
)

func ParseStyle(s string) SpendingStyle {
	switch SpendingStyle(strings.ToLower(strings.TrimSpace(s))) {
	case StyleBudget:
		return StyleBudget
	case StylePremium:
		return StylePremium
	default:
		return StyleBalanced
	}
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Candidate is a place under consideration for scheduling.
// Only TravelTimeMin (and the Score derived from it) changes after scoring.
type Candidate struct {
	Name          string   `json:"name"`
	Address       string   `json:"address,omitempty"`
	Category      Category `json:"category"`
	Coords        *Coords  `json:"coordinates,omitempty"`
	Rating        float64  `json:"rating"`
	Votes         int      `json:"votes"`
	PriceLevel    int      `json:"price_level"`
	EstimatedCost int64    `json:"estimated_cost_vnd"`
	DurationMin   int      `json:"duration_min"`
	UserFit       *float64 `json:"user_fit,omitempty"`
	Score         float64  `json:"score"`
	TravelTimeMin int      `json:"travel_time_min"`
	Description   string   `json:"description,omitempty"`
	Types         []string `json:"types,omitempty"`
}

// RawPlace is a search hit before category/cost inference.
type RawPlace struct {
	Name           string
	Address        string
	Rating         float64
	Votes          int
	PriceLevel     int
	Coords         *Coords
	Types          []string
	HasPhotos      bool
	BusinessStatus string
}
