package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"tripplanner/internal/domain"
)

const (
	segmentBufferMin = 30 // transfer and slack added to every scheduled visit

	defaultFoodMin  = 75
	defaultDrinkMin = 60
	defaultOtherMin = 60

	preLunchSkipLimit  = 10
	postLunchSkipLimit = 5
	shortActivityCap   = 90
	drinkSlackMin      = 60
)

type energyProfile struct {
	DailyMinutes int
	MaxOther     int
}

var energyProfiles = map[domain.Energy]energyProfile{
	domain.EnergyLow:    {DailyMinutes: 240, MaxOther: 2},
	domain.EnergyMedium: {DailyMinutes: 360, MaxOther: 4},
	domain.EnergyHigh:   {DailyMinutes: 540, MaxOther: 6},
}

func profileFor(e domain.Energy) energyProfile {
	if p, ok := energyProfiles[e]; ok {
		return p
	}
	return energyProfiles[domain.EnergyMedium]
}

// DailyMinutes is the per-day time budget for an energy level.
func DailyMinutes(e domain.Energy) int { return profileFor(e).DailyMinutes }

type keySet map[string]struct{}

func (s keySet) has(k string) bool {
	_, ok := s[k]
	return ok
}

func (s keySet) add(k string) { s[k] = struct{}{} }

// SchedulerState is everything that carries over from one day to the next
// within a single build: pick cursors and the trip-wide used-name sets.
type SchedulerState struct {
	FoodCursor  int
	DrinkCursor int
	OtherCursor int

	UsedFood  keySet
	UsedDrink keySet
	UsedOther keySet
}

func NewSchedulerState() *SchedulerState {
	return &SchedulerState{UsedFood: keySet{}, UsedDrink: keySet{}, UsedOther: keySet{}}
}

// dayPlan is the working state of the day being built.
type dayPlan struct {
	index    int
	segments []domain.Segment
	used     keySet
	remain   int
	others   int

	// mandatory drinks still owed from this day to the end of the trip
	drinksOwed int
}

func (p *dayPlan) lastIsMeal() bool {
	return len(p.segments) > 0 && p.segments[len(p.segments)-1].IsMeal
}

type SchedulerConfig struct {
	Locale Locale
	Travel domain.TravelTimeService // optional; nil leaves legs unset
	Mode   domain.TravelMode
}

// Scheduler greedily assembles day schedules. It is sequential by nature:
// what day N takes is unavailable to day N+1.
type Scheduler struct {
	key    NameKey
	travel domain.TravelTimeService
	mode   domain.TravelMode
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	k := cfg.Locale.Key
	if k == nil {
		k = VietnameseKey
	}
	mode := cfg.Mode
	if mode == "" {
		mode = domain.ModeDriving
	}
	return &Scheduler{key: k, travel: cfg.Travel, mode: mode}
}

type BuildInput struct {
	Pools  Pools
	Days   int
	Energy domain.Energy
	Hotel  *domain.Hotel
	Start  time.Time
}

// Build produces one Day per trip day. Pool shortfalls are logged, never fatal.
func (s *Scheduler) Build(ctx context.Context, in BuildInput) []domain.Day {
	if in.Days <= 0 {
		in.Days = 1
	}
	if need := in.Days * 3; len(in.Pools.Food) < need {
		log.Error().Int("food", len(in.Pools.Food)).Int("required", need).Msg("insufficient food candidates")
	}
	if need := in.Days; len(in.Pools.Drink) < need {
		log.Error().Int("drink", len(in.Pools.Drink)).Int("required", need).Msg("insufficient drink candidates")
	}

	st := NewSchedulerState()
	days := make([]domain.Day, 0, in.Days)
	for d := 0; d < in.Days; d++ {
		days = append(days, s.BuildDay(ctx, st, in, d))
	}
	return days
}

// BuildDay schedules day d against the shared state st.
func (s *Scheduler) BuildDay(ctx context.Context, st *SchedulerState, in BuildInput, d int) domain.Day {
	prof := profileFor(in.Energy)
	dp := &dayPlan{index: d, used: keySet{}, remain: prof.DailyMinutes, drinksOwed: in.Days - d}

	minPerDay := 0
	if n := len(in.Pools.Other); n > 0 {
		minPerDay = max(1, n/max(1, in.Days))
	}
	// the last two days may squeeze in a trimmed activity to reach the minimum
	lenient := d >= in.Days-2

	s.addMeal(st, dp, in.Pools.Food, domain.MealBreakfast)
	s.fillOthers(st, dp, in.Pools.Other, prof.MaxOther, preLunchSkipLimit, lenient, minPerDay, false)

	s.separateMeals(st, dp, in.Pools)
	s.addMeal(st, dp, in.Pools.Food, domain.MealLunch)
	s.fillOthers(st, dp, in.Pools.Other, prof.MaxOther, postLunchSkipLimit, lenient, minPerDay, true)

	if c, ok := s.pick(in.Pools.Drink, &st.DrinkCursor, st.UsedDrink, dp.used); ok {
		s.appendMandatory(dp, c, defaultDrinkMin, "")
	} else {
		log.Warn().Int("day", d+1).Msg("no drink available")
	}
	dp.drinksOwed--

	s.separateMeals(st, dp, in.Pools)
	s.addMeal(st, dp, in.Pools.Food, domain.MealDinner)

	if dp.remain > drinkSlackMin {
		s.tryOptionalDrink(st, dp, in.Pools.Drink)
	}

	attachTravelToNext(ctx, s.travel, dp.segments, s.mode)

	food, drink := 0, 0
	for _, seg := range dp.segments {
		switch {
		case seg.Category.IsFood():
			food++
		case seg.Category.IsDrink():
			drink++
		}
	}
	if food < 3 {
		log.Warn().Int("day", d+1).Int("food", food).Msg("day has fewer than three meals")
	}
	log.Info().
		Int("day", d+1).
		Int("segments", len(dp.segments)).
		Int("other", dp.others).
		Int("food", food).
		Int("drink", drink).
		Int("remain_min", dp.remain).
		Msg("day scheduled")

	return domain.Day{
		Date:     in.Start.AddDate(0, 0, d).Format(DateLayout),
		Hotel:    in.Hotel,
		Segments: dp.segments,
	}
}

// pick walks list from *cursor, wrapping, and returns the first candidate whose
// key is in neither used set. It makes up to len*3 cursor moves, then one full
// linear scan. The key is marked in global on success.
func (s *Scheduler) pick(list []domain.Candidate, cursor *int, global, day keySet) (domain.Candidate, bool) {
	n := len(list)
	if n == 0 {
		return domain.Candidate{}, false
	}
	free := func(i int) (string, bool) {
		k := s.key(list[i].Name)
		return k, k != "" && !global.has(k) && !day.has(k)
	}
	for attempt := 0; attempt < n*3; attempt++ {
		i := *cursor % n
		*cursor = (i + 1) % n
		if k, ok := free(i); ok {
			global.add(k)
			return list[i], true
		}
	}
	for i := range list {
		if k, ok := free(i); ok {
			global.add(k)
			*cursor = (i + 1) % n
			return list[i], true
		}
	}
	return domain.Candidate{}, false
}

func (s *Scheduler) addMeal(st *SchedulerState, dp *dayPlan, food []domain.Candidate, tag domain.MealTag) {
	c, ok := s.pick(food, &st.FoodCursor, st.UsedFood, dp.used)
	if !ok {
		log.Error().Int("day", dp.index+1).Str("meal", string(tag)).Int("used", len(st.UsedFood)).Msg("no unused food candidate")
		return
	}
	s.appendMandatory(dp, c, defaultFoodMin, tag)
	log.Debug().Int("day", dp.index+1).Str("meal", string(tag)).Str("name", c.Name).Msg("meal picked")
}

// appendMandatory always appends c. When it overruns the remaining time its
// duration is trimmed and the budget floors at zero.
func (s *Scheduler) appendMandatory(dp *dayPlan, c domain.Candidate, defDur int, tag domain.MealTag) {
	dur := durationOr(c.DurationMin, defDur)
	cost := dur + c.TravelTimeMin + segmentBufferMin
	if cost <= dp.remain {
		dp.remain -= cost
	} else {
		capped := min(dur, max(segmentBufferMin, dp.remain-segmentBufferMin))
		if dp.remain > segmentBufferMin {
			dur = capped
		}
		dp.remain = max(0, dp.remain-capped)
	}
	s.appendSegment(dp, c, dur, tag)
}

func (s *Scheduler) appendSegment(dp *dayPlan, c domain.Candidate, dur int, tag domain.MealTag) {
	seg := segmentFrom(c, dur)
	if tag != "" {
		seg.Meal = tag
		seg.MealSlot = tag.Slot()
	}
	dp.segments = append(dp.segments, seg)
	dp.used.add(s.key(c.Name))
}

// fillOthers appends unused "other" candidates that fit in the remaining time,
// up to maxOther per day. A candidate that does not fit stays in the pool for
// later days; filling stops after skipLimit consecutive misses.
func (s *Scheduler) fillOthers(st *SchedulerState, dp *dayPlan, list []domain.Candidate, maxOther, skipLimit int, lenient bool, minPerDay int, needSlack bool) {
	skips := 0
	for i := st.OtherCursor; i < len(list) && dp.others < maxOther; i++ {
		if needSlack && dp.remain <= segmentBufferMin {
			break
		}
		c := list[i]
		k := s.key(c.Name)
		if k == "" || st.UsedOther.has(k) || dp.used.has(k) {
			continue
		}
		dur := durationOr(c.DurationMin, defaultOtherMin)
		cost := dur + c.TravelTimeMin + segmentBufferMin
		if cost <= dp.remain {
			s.takeOther(st, dp, c, dur)
			dp.remain -= cost
			skips = 0
			continue
		}
		if lenient && dp.others < minPerDay && dp.remain > segmentBufferMin {
			trimmed := min(dur, dp.remain-segmentBufferMin)
			s.takeOther(st, dp, c, trimmed)
			dp.remain = 0
			log.Info().Int("day", dp.index+1).Str("name", c.Name).Int("duration", trimmed).Msg("activity trimmed to reach daily minimum")
			break
		}
		skips++
		if skips >= skipLimit {
			log.Debug().Int("day", dp.index+1).Int("skipped", skips).Msg("stopped filling to preserve pool")
			break
		}
	}
	s.advanceOtherCursor(st, list)
}

func (s *Scheduler) takeOther(st *SchedulerState, dp *dayPlan, c domain.Candidate, dur int) {
	st.UsedOther.add(s.key(c.Name))
	s.appendSegment(dp, c, dur, "")
	dp.others++
}

// advanceOtherCursor moves past the consumed prefix of the other pool.
func (s *Scheduler) advanceOtherCursor(st *SchedulerState, list []domain.Candidate) {
	for st.OtherCursor < len(list) {
		k := s.key(list[st.OtherCursor].Name)
		if k != "" && !st.UsedOther.has(k) {
			return
		}
		st.OtherCursor++
	}
}

// separateMeals keeps a meal from directly following another: it tries a drink
// first, then one short activity, each only if it fits. A drink is spent here
// only when the pool still covers every mandatory drink owed; otherwise the
// pair is left for the repairer.
func (s *Scheduler) separateMeals(st *SchedulerState, dp *dayPlan, pools Pools) {
	if !dp.lastIsMeal() {
		return
	}
	if dp.remain > drinkSlackMin && s.unusedCount(pools.Drink, st.UsedDrink, dp.used) > dp.drinksOwed {
		if c, ok := s.pick(pools.Drink, &st.DrinkCursor, st.UsedDrink, dp.used); ok {
			dur := durationOr(c.DurationMin, defaultDrinkMin)
			if cost := dur + c.TravelTimeMin + segmentBufferMin; cost <= dp.remain {
				s.appendSegment(dp, c, dur, "")
				dp.remain -= cost
				return
			}
			delete(st.UsedDrink, s.key(c.Name))
		}
	}
	if dp.remain <= segmentBufferMin {
		return
	}
	for i := st.OtherCursor; i < len(pools.Other); i++ {
		c := pools.Other[i]
		k := s.key(c.Name)
		if k == "" || st.UsedOther.has(k) || dp.used.has(k) {
			continue
		}
		dur := min(durationOr(c.DurationMin, defaultOtherMin), shortActivityCap)
		if cost := dur + c.TravelTimeMin + segmentBufferMin; cost <= dp.remain {
			s.takeOther(st, dp, c, dur)
			dp.remain -= cost
			s.advanceOtherCursor(st, pools.Other)
		}
		return
	}
}

// unusedCount counts the distinct keys of list in neither used set.
func (s *Scheduler) unusedCount(list []domain.Candidate, global, day keySet) int {
	seen := keySet{}
	for _, c := range list {
		k := s.key(c.Name)
		if k == "" || global.has(k) || day.has(k) || seen.has(k) {
			continue
		}
		seen.add(k)
	}
	return len(seen)
}

func (s *Scheduler) tryOptionalDrink(st *SchedulerState, dp *dayPlan, drinks []domain.Candidate) {
	c, ok := s.pick(drinks, &st.DrinkCursor, st.UsedDrink, dp.used)
	if !ok {
		return
	}
	dur := durationOr(c.DurationMin, defaultDrinkMin)
	if cost := dur + c.TravelTimeMin + segmentBufferMin; cost <= dp.remain {
		s.appendSegment(dp, c, dur, "")
		dp.remain -= cost
		return
	}
	delete(st.UsedDrink, s.key(c.Name))
}

func segmentFrom(c domain.Candidate, dur int) domain.Segment {
	return domain.Segment{
		Name:          c.Name,
		Address:       c.Address,
		Category:      c.Category,
		DurationMin:   dur,
		TravelTimeMin: c.TravelTimeMin,
		IsMeal:        c.Category.IsFood(),
		Cost:          c.EstimatedCost,
		Score:         c.Score,
		Rating:        c.Rating,
		Votes:         c.Votes,
		Coords:        c.Coords,
	}
}

func durationOr(d, def int) int {
	if d > 0 {
		return d
	}
	return def
}
