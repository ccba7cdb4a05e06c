package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"tripplanner/internal/domain"
)

func longThenShort(long int) []domain.Candidate {
	var list []domain.Candidate
	for i := 0; i < long; i++ {
		list = append(list, domain.Candidate{Name: fmt.Sprintf("Điểm xa %d", i), Category: domain.CategoryAttraction, DurationMin: 300})
	}
	return append(list, domain.Candidate{Name: "Điểm gần", Category: domain.CategoryAttraction, DurationMin: 60})
}

func TestFillOthers_SkipLimits(t *testing.T) {
	cases := []struct {
		name      string
		long      int
		skipLimit int
		slack     bool
		want      int
	}{
		{"post-lunch stops at five misses", 5, postLunchSkipLimit, true, 0},
		{"post-lunch reaches past four misses", 4, postLunchSkipLimit, true, 1},
		{"pre-lunch tolerates five misses", 5, preLunchSkipLimit, false, 1},
		{"pre-lunch stops at ten misses", 10, preLunchSkipLimit, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScheduler(SchedulerConfig{})
			st := NewSchedulerState()
			dp := &dayPlan{used: keySet{}, remain: 200}

			s.fillOthers(st, dp, longThenShort(tc.long), 4, tc.skipLimit, false, 0, tc.slack)

			assert.Equal(t, tc.want, dp.others)
			if tc.want == 1 {
				assert.Equal(t, 110, dp.remain)
				assert.Equal(t, "Điểm gần", dp.segments[0].Name)
			} else {
				assert.Equal(t, 200, dp.remain)
			}
		})
	}
}

func TestFillOthers_TrimsOnceToReachMinimum(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	st := NewSchedulerState()
	dp := &dayPlan{used: keySet{}, remain: 150}

	s.fillOthers(st, dp, longThenShort(3), 4, preLunchSkipLimit, true, 1, false)

	assert.Equal(t, 1, dp.others)
	assert.Equal(t, 0, dp.remain)
	assert.Equal(t, "Điểm xa 0", dp.segments[0].Name)
	assert.Equal(t, 120, dp.segments[0].DurationMin)
}

func TestSeparateMeals_KeepsDrinksOwedToLaterDays(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	pools := Pools{Drink: []domain.Candidate{
		{Name: "Cà phê Một", Category: domain.CategoryDrink, DurationMin: 45},
		{Name: "Cà phê Hai", Category: domain.CategoryDrink, DurationMin: 45},
	}}
	breakfast := domain.Segment{Name: "Quán sáng", Category: domain.CategoryFood, IsMeal: true, Meal: domain.MealBreakfast}

	st := NewSchedulerState()
	dp := &dayPlan{used: keySet{}, remain: 150, drinksOwed: 2, segments: []domain.Segment{breakfast}}
	s.separateMeals(st, dp, pools)
	assert.Len(t, dp.segments, 1, "both drinks are owed")
	assert.Empty(t, st.UsedDrink)

	dp = &dayPlan{used: keySet{}, remain: 150, drinksOwed: 1, segments: []domain.Segment{breakfast}}
	s.separateMeals(st, dp, pools)
	assert.Len(t, dp.segments, 2)
	assert.True(t, dp.segments[1].Category.IsDrink())
	assert.Equal(t, 75, dp.remain)
}
