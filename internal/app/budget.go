package app

import (
	"math"

	"tripplanner/internal/domain"
)

// DefaultBudgetVND applies when a request carries no usable budget.
const DefaultBudgetVND int64 = 5_000_000

type budgetRatios struct{ hotel, activities, food float64 }

var styleRatios = map[domain.SpendingStyle]budgetRatios{
	domain.StyleBudget:   {hotel: 0.30, activities: 0.10, food: 0.15},
	domain.StyleBalanced: {hotel: 0.40, activities: 0.20, food: 0.15},
	domain.StylePremium:  {hotel: 0.50, activities: 0.30, food: 0.20},
}

// AllocateBudget splits total into hotel/activities/food/transport shares.
// Transport takes the remainder, so the four ratios always sum to 1.
func AllocateBudget(total int64, style domain.SpendingStyle) domain.BudgetAllocation {
	if total <= 0 {
		total = DefaultBudgetVND
	}
	r, ok := styleRatios[style]
	if !ok {
		r = styleRatios[domain.StyleBalanced]
	}
	t := float64(total)
	return domain.BudgetAllocation{
		Hotel:      int64(math.Round(t * r.hotel)),
		Activities: int64(math.Round(t * r.activities)),
		Food:       int64(math.Round(t * r.food)),
		Transport:  int64(math.Round(t * (1 - r.hotel - r.activities - r.food))),
	}
}
