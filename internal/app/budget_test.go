package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tripplanner/internal/app"
	"tripplanner/internal/domain"
)

func TestAllocateBudget_PremiumTenMillion(t *testing.T) {
	got := app.AllocateBudget(10_000_000, domain.StylePremium)
	assert.Equal(t, domain.BudgetAllocation{
		Hotel:      5_000_000,
		Activities: 3_000_000,
		Food:       2_000_000,
		Transport:  0,
	}, got)
}

func TestAllocateBudget_SharesSumToTotal(t *testing.T) {
	for _, style := range []domain.SpendingStyle{domain.StyleBudget, domain.StyleBalanced, domain.StylePremium, "unknown"} {
		for _, total := range []int64{1_000_000, 4_999_999, 12_345_678} {
			b := app.AllocateBudget(total, style)
			sum := b.Hotel + b.Activities + b.Food + b.Transport
			assert.InDelta(t, total, sum, 1, "style=%s total=%d", style, total)
			assert.GreaterOrEqual(t, b.Transport, int64(0))
		}
	}
}

func TestAllocateBudget_RoundingDriftAtMostOne(t *testing.T) {
	for _, style := range []domain.SpendingStyle{domain.StyleBudget, domain.StyleBalanced, domain.StylePremium} {
		for total := int64(1); total <= 200_000; total += 7 {
			b := app.AllocateBudget(total, style)
			sum := b.Hotel + b.Activities + b.Food + b.Transport
			if d := sum - total; d > 1 || d < -1 {
				t.Fatalf("style=%s total=%d: shares sum to %d", style, total, sum)
			}
		}
	}
}

func TestAllocateBudget_DefaultsAndUnknownStyle(t *testing.T) {
	assert.Equal(t, app.AllocateBudget(app.DefaultBudgetVND, domain.StyleBalanced), app.AllocateBudget(0, domain.StyleBalanced))
	assert.Equal(t, app.AllocateBudget(8_000_000, domain.StyleBalanced), app.AllocateBudget(8_000_000, "luxury"))

	b := app.AllocateBudget(10_000_000, domain.StyleBudget)
	assert.Equal(t, int64(3_000_000), b.Hotel)
	assert.Equal(t, int64(4_500_000), b.Transport)
}
