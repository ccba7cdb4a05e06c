package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/internal/app"
	"tripplanner/internal/domain"
)

func mealSeg(name string, tag domain.MealTag, c *domain.Coords) domain.Segment {
	return domain.Segment{Name: name, Category: domain.CategoryFood, DurationMin: 60, IsMeal: true, Meal: tag, MealSlot: tag.Slot(), Coords: c}
}

func backToBackDay() domain.Day {
	return domain.Day{Date: "2025-03-01", Segments: []domain.Segment{
		mealSeg("Bánh mì Phượng", domain.MealBreakfast, at(11.940, 108.440)),
		mealSeg("Cơm gà Hải Nam", domain.MealLunch, at(11.941, 108.441)),
	}}
}

func TestRepair_InsertsNearbyActivityBetweenMeals(t *testing.T) {
	tr := &fakeTravel{minutes: 15}
	r := app.NewRepairer(app.RepairerConfig{Travel: tr})
	pool := []domain.Candidate{
		{Name: "Ga Đà Lạt", Category: domain.CategoryLandmark, Rating: 4.5, Votes: 500, DurationMin: 60, Coords: at(11.942, 108.452)},
	}

	days, residual := r.Repair(context.Background(), app.RepairInput{
		Days: []domain.Day{backToBackDay()}, Pool: pool, Energy: domain.EnergyMedium, ActivityBudget: 1_000_000,
	})

	assert.Empty(t, residual)
	segs := days[0].Segments
	require.Len(t, segs, 3)
	assert.Equal(t, "Ga Đà Lạt", segs[1].Name)
	assert.Equal(t, 15, segs[1].TravelTimeMin)
	assert.False(t, segs[1].IsMeal)
	for i := 0; i+1 < len(segs); i++ {
		assert.False(t, app.ConsecutiveMeals(segs[i], segs[i+1]))
	}
	require.NotNil(t, segs[0].TravelToNextMin)
	assert.Equal(t, 15, *segs[0].TravelToNextMin)
}

func TestRepair_DoesNotMutateInput(t *testing.T) {
	r := app.NewRepairer(app.RepairerConfig{Travel: &fakeTravel{minutes: 5}})
	in := []domain.Day{backToBackDay()}
	pool := []domain.Candidate{{Name: "Hồ Tuyền Lâm", Category: domain.CategoryNatural, Coords: at(11.9, 108.4), DurationMin: 60}}

	_, _ = r.Repair(context.Background(), app.RepairInput{Days: in, Pool: pool, Energy: domain.EnergyMedium})
	assert.Len(t, in[0].Segments, 2)
}

func TestRepair_ReportsWhatCannotBeFixed(t *testing.T) {
	r := app.NewRepairer(app.RepairerConfig{Travel: &fakeTravel{minutes: 50}})
	pool := []domain.Candidate{
		{Name: "Thác Prenn", Category: domain.CategoryNatural, Coords: at(11.88, 108.47), DurationMin: 60},
	}
	days, residual := r.Repair(context.Background(), app.RepairInput{Days: []domain.Day{backToBackDay()}, Pool: pool, Energy: domain.EnergyMedium})

	require.Len(t, residual, 1)
	assert.Equal(t, domain.Violation{Day: 1, First: "Bánh mì Phượng", Second: "Cơm gà Hải Nam"}, residual[0])
	assert.Len(t, days[0].Segments, 2)
}

func TestRepair_RelaxedRadius(t *testing.T) {
	far := at(11.95, 108.46)
	tr := &fakeTravel{minutes: 10, byLat: map[float64]int{11.95: 40}}
	r := app.NewRepairer(app.RepairerConfig{Travel: tr})
	pool := []domain.Candidate{{Name: "Đồi Robin", Category: domain.CategoryViewpoint, Coords: far, DurationMin: 60}}

	days, residual := r.Repair(context.Background(), app.RepairInput{Days: []domain.Day{backToBackDay()}, Pool: pool, Energy: domain.EnergyMedium})
	assert.Empty(t, residual)
	assert.Equal(t, 40, days[0].Segments[1].TravelTimeMin)
}

func TestRepair_PicksBestScoreAndSkipsUsedOrLong(t *testing.T) {
	tr := &fakeTravel{minutes: 10}
	r := app.NewRepairer(app.RepairerConfig{Travel: tr})
	day := backToBackDay()
	day.Segments = append(day.Segments, domain.Segment{Name: "Chợ Đà Lạt", Category: domain.CategoryShopping})
	pool := []domain.Candidate{
		{Name: "Chợ Đà Lạt", Category: domain.CategoryShopping, Rating: 5, Votes: 5000, Coords: at(11.94, 108.43), DurationMin: 60},
		{Name: "Vườn hoa thành phố", Category: domain.CategoryPark, Rating: 5, Votes: 3000, Coords: at(11.95, 108.45), DurationMin: 180},
		{Name: "Dinh Bảo Đại", Category: domain.CategoryLandmark, Rating: 4.2, Votes: 100, Coords: at(11.93, 108.42), DurationMin: 90},
		{Name: "Nhà thờ Con Gà", Category: domain.CategoryLandmark, Rating: 4.7, Votes: 900, Coords: at(11.936, 108.438), DurationMin: 60},
		{Name: "Lẩu bò Ba Toa", Category: domain.CategoryFood, Rating: 5, Votes: 9000, Coords: at(11.937, 108.44)},
	}

	days, residual := r.Repair(context.Background(), app.RepairInput{Days: []domain.Day{day}, Pool: pool, Energy: domain.EnergyLow, ActivityBudget: 1_000_000})
	require.Empty(t, residual)
	// already scheduled, too long for low energy, and food are all ineligible
	assert.Equal(t, "Nhà thờ Con Gà", days[0].Segments[1].Name)
}

func TestRepair_FallsBackToNearbySearch(t *testing.T) {
	search := &fakeSearch{nearby: []map[string]any{
		place("Nhà hàng Ngọc Hạnh", "restaurant", 4.8, 900, 11.941, 108.442),
		place("Quảng trường Lâm Viên", "tourist_attraction", 4.6, 4000, 11.939, 108.445),
	}}
	r := app.NewRepairer(app.RepairerConfig{Locale: app.VietnameseLocale(), Travel: &fakeTravel{minutes: 8}, Search: search})

	days, residual := r.Repair(context.Background(), app.RepairInput{Days: []domain.Day{backToBackDay()}, Energy: domain.EnergyMedium, City: "Đà Lạt"})
	require.Empty(t, residual)
	ins := days[0].Segments[1]
	assert.Equal(t, "Quảng trường Lâm Viên", ins.Name)
	assert.Equal(t, domain.CategoryCulture, ins.Category)
	assert.Equal(t, 60, ins.DurationMin)
}

func TestRepair_MealWithoutCoordsIsResidual(t *testing.T) {
	r := app.NewRepairer(app.RepairerConfig{Travel: &fakeTravel{minutes: 1}})
	day := domain.Day{Segments: []domain.Segment{mealSeg("A", domain.MealLunch, nil), mealSeg("B", domain.MealDinner, nil)}}
	pool := []domain.Candidate{{Name: "C", Category: domain.CategoryPark, Coords: at(1, 1)}}

	_, residual := r.Repair(context.Background(), app.RepairInput{Days: []domain.Day{day}, Pool: pool})
	assert.Len(t, residual, 1)
}

func TestConsecutiveMeals(t *testing.T) {
	a := mealSeg("A", domain.MealLunch, nil)
	b := domain.Segment{Name: "B", Meal: domain.MealDinner}
	c := domain.Segment{Name: "C", Category: domain.CategoryPark}
	assert.True(t, app.ConsecutiveMeals(a, b))
	assert.False(t, app.ConsecutiveMeals(a, c))
	assert.True(t, app.ConsecutiveMeals(domain.Segment{Category: domain.CategoryFood}, domain.Segment{Category: domain.CategoryFood}))
}
