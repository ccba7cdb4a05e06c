package app

import (
	"math"
	"sort"

	"tripplanner/internal/domain"
)

const (
	weightRating     = 0.30
	weightPopularity = 0.20
	weightUserFit    = 0.25
	weightDuration   = 0.15
	weightTravel     = 0.10

	defaultUserFit  = 0.5
	defaultDuration = 90
)

// DurationFit rates how well a visit length suits the traveller's energy.
func DurationFit(d int, e domain.Energy) float64 {
	m := float64(d)
	switch e {
	case domain.EnergyHigh:
		switch {
		case d < 60:
			return 0.3
		case d <= 240:
			return math.Min(1.0, 0.5+(m-60)/360)
		default:
			return 1.0
		}
	case domain.EnergyLow:
		switch {
		case d <= 90:
			return 1.0
		case d <= 180:
			return math.Max(0.3, 1.0-(m-90)/180)
		default:
			return 0.2
		}
	default:
		switch {
		case d < 60:
			return 0.4
		case d <= 180:
			return math.Min(1.0, 0.6+(m-60)/240)
		default:
			return math.Max(0.5, 1.0-(m-180)/180)
		}
	}
}

// TravelPenalty grows with minutes of travel from the reference point.
func TravelPenalty(t int) float64 {
	m := float64(t)
	switch {
	case t <= 0:
		return 0
	case t <= 15:
		return m / 15 * 0.05
	case t <= 30:
		return 0.05 + (m-15)/15*0.10
	case t <= 60:
		return 0.15 + (m-30)/30*0.20
	default:
		return 0.35 + math.Min(0.30, (m-60)/60*0.30)
	}
}

// CostPenalty steps up with the cost/budget ratio. A zero budget never penalises.
func CostPenalty(cost, budget int64) float64 {
	if budget <= 0 {
		return 0
	}
	r := float64(cost) / float64(budget)
	switch {
	case r <= 0.3:
		return 0
	case r <= 0.6:
		return 0.05
	case r <= 1.0:
		return 0.15
	default:
		return 0.30
	}
}

// HybridScore combines rating, popularity, user fit, duration fit, travel and
// cost into one comparable number. The result is neither rounded nor clamped.
func HybridScore(c domain.Candidate, e domain.Energy, activityBudget int64, travelMin int) float64 {
	rating := 0.0
	if c.Rating > 0 {
		rating = c.Rating / 5
	}
	popularity := math.Min(1, float64(c.Votes)/1000)
	fit := defaultUserFit
	if c.UserFit != nil {
		fit = *c.UserFit
	}
	d := c.DurationMin
	if d <= 0 {
		d = defaultDuration
	}
	return weightRating*rating +
		weightPopularity*popularity +
		weightUserFit*fit +
		weightDuration*DurationFit(d, e) -
		weightTravel*TravelPenalty(travelMin) -
		CostPenalty(c.EstimatedCost, activityBudget)
}

// Rescore recomputes every score in place from each candidate's current travel time.
func Rescore(cands []domain.Candidate, e domain.Energy, activityBudget int64) {
	for i := range cands {
		cands[i].Score = HybridScore(cands[i], e, activityBudget, cands[i].TravelTimeMin)
	}
}

// SortByScore orders candidates best first; ties keep their input order.
func SortByScore(cands []domain.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
}
