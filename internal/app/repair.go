package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"tripplanner/internal/domain"
)

const (
	repairStrictMin   = 30
	repairRelaxedMin  = 45
	unreachableMin    = 999
	lowEnergyMaxMin   = 120
	nearbyRadiusM     = 5000
	nearbyLimit       = 20
	nearbyDurationMin = 60
)

// types that disqualify a nearby-search hit from sitting between two meals
var mealPlaceTypes = []string{"restaurant", "food", "cafe", "coffee", "bar", "bakery", "meal_takeaway", "meal_delivery", "night_club"}

type RepairerConfig struct {
	Locale Locale
	Travel domain.TravelTimeService
	Search domain.SearchClient // optional nearby fallback
	Mode   domain.TravelMode
}

// Repairer separates back-to-back meals by inserting a nearby activity.
type Repairer struct {
	key    NameKey
	accept ScriptFilter
	travel domain.TravelTimeService
	search domain.SearchClient
	mode   domain.TravelMode
}

func NewRepairer(cfg RepairerConfig) *Repairer {
	k := cfg.Locale.Key
	if k == nil {
		k = VietnameseKey
	}
	mode := cfg.Mode
	if mode == "" {
		mode = domain.ModeDriving
	}
	return &Repairer{key: k, accept: cfg.Locale.Accept, travel: cfg.Travel, search: cfg.Search, mode: mode}
}

type RepairInput struct {
	Days           []domain.Day
	Pool           []domain.Candidate
	Energy         domain.Energy
	ActivityBudget int64
	City           string
}

// isMeal accepts both the explicit flag and a bare meal tag so that days
// decoded from older payloads without the flag are still recognised.
func isMeal(s domain.Segment) bool { return s.IsMeal || s.Meal != "" }

// ConsecutiveMeals reports whether a and b are two meals with nothing between.
func ConsecutiveMeals(a, b domain.Segment) bool {
	return (isMeal(a) && isMeal(b)) || (a.Category.IsFood() && b.Category.IsFood())
}

// Repair returns a copy of in.Days where every meal pair that could be
// separated has an activity inserted between, plus the pairs left unrepaired.
func (r *Repairer) Repair(ctx context.Context, in RepairInput) ([]domain.Day, []domain.Violation) {
	used := keySet{}
	for _, d := range in.Days {
		for _, s := range d.Segments {
			used.add(r.key(s.Name))
		}
	}

	out := make([]domain.Day, len(in.Days))
	var residual []domain.Violation
	for di, day := range in.Days {
		segs := append([]domain.Segment(nil), day.Segments...)
		dayKeys := keySet{}
		for _, s := range segs {
			dayKeys.add(r.key(s.Name))
		}

		changed := false
		for i := 0; i+1 < len(segs); i++ {
			if !ConsecutiveMeals(segs[i], segs[i+1]) {
				continue
			}
			ins, ok := r.bestBetween(ctx, segs[i], dayKeys, used, in)
			if !ok {
				residual = append(residual, domain.Violation{Day: di + 1, First: segs[i].Name, Second: segs[i+1].Name})
				log.Warn().
					Int("day", di+1).
					Str("first", segs[i].Name).
					Str("second", segs[i+1].Name).
					Msg("meals remain consecutive")
				continue
			}
			segs = append(segs[:i+1], append([]domain.Segment{ins}, segs[i+1:]...)...)
			k := r.key(ins.Name)
			dayKeys.add(k)
			used.add(k)
			changed = true
			log.Info().Int("day", di+1).Str("inserted", ins.Name).Int("travel_min", ins.TravelTimeMin).Msg("activity inserted between meals")
			i++
		}
		if changed {
			attachTravelToNext(ctx, r.travel, segs, r.mode)
		}
		out[di] = day
		out[di].Segments = segs
	}
	return out, residual
}

// bestBetween finds the highest-scoring reachable activity near meal.
// The pool is tried first; a nearby search is the last resort.
func (r *Repairer) bestBetween(ctx context.Context, meal domain.Segment, dayKeys, used keySet, in RepairInput) (domain.Segment, bool) {
	if meal.Coords == nil {
		return domain.Segment{}, false
	}
	origin := *meal.Coords

	eligible := func(c domain.Candidate) bool {
		if !c.Category.IsOther() || c.Coords == nil {
			return false
		}
		k := r.key(c.Name)
		return k != "" && !dayKeys.has(k) && !used.has(k)
	}

	var pool []domain.Candidate
	for _, c := range in.Pool {
		if eligible(c) {
			pool = append(pool, c)
		}
	}
	if seg, ok := r.choose(ctx, origin, pool, in); ok {
		return seg, true
	}

	var nearby []domain.Candidate
	for _, c := range r.nearby(ctx, origin, in.City) {
		if eligible(c) {
			nearby = append(nearby, c)
		}
	}
	return r.choose(ctx, origin, nearby, in)
}

func (r *Repairer) choose(ctx context.Context, origin domain.Coords, cands []domain.Candidate, in RepairInput) (domain.Segment, bool) {
	if len(cands) == 0 {
		return domain.Segment{}, false
	}
	minutes := r.measure(ctx, origin, cands)

	within := func(limit int) []int {
		var idx []int
		for i, c := range cands {
			if minutes[i] > limit {
				continue
			}
			if in.Energy == domain.EnergyLow && durationOr(c.DurationMin, defaultOtherMin) > lowEnergyMaxMin {
				continue
			}
			idx = append(idx, i)
		}
		return idx
	}
	idx := within(repairStrictMin)
	if len(idx) == 0 {
		idx = within(repairRelaxedMin)
	}
	if len(idx) == 0 {
		return domain.Segment{}, false
	}

	best, bestScore := -1, 0.0
	for _, i := range idx {
		sc := HybridScore(cands[i], in.Energy, in.ActivityBudget, minutes[i])
		if best < 0 || sc > bestScore {
			best, bestScore = i, sc
		}
	}
	c := cands[best]
	seg := segmentFrom(c, durationOr(c.DurationMin, defaultOtherMin))
	seg.TravelTimeMin = minutes[best]
	seg.Score = bestScore
	return seg, true
}

// measure returns travel minutes from origin to each candidate in one batch.
// Failures read as unreachable.
func (r *Repairer) measure(ctx context.Context, origin domain.Coords, cands []domain.Candidate) []int {
	out := make([]int, len(cands))
	for i := range out {
		out[i] = unreachableMin
	}
	if r.travel == nil {
		return out
	}
	legs := make([]domain.Leg, len(cands))
	for i, c := range cands {
		legs[i] = domain.Leg{Origin: origin, Dest: *c.Coords, Mode: r.mode}
	}
	res, err := r.travel.TravelTimes(ctx, legs)
	if err != nil || len(res) != len(legs) {
		log.Warn().Err(err).Int("legs", len(legs)).Msg("repair travel lookup failed")
		return out
	}
	for i, tr := range res {
		out[i] = tr.Minutes
	}
	return out
}

// nearby asks the search provider for sightseeing spots around origin.
func (r *Repairer) nearby(ctx context.Context, origin domain.Coords, city string) []domain.Candidate {
	if r.search == nil {
		return nil
	}
	raw, err := r.search.SearchNearby(ctx, "điểm tham quan "+city, origin, nearbyRadiusM, nearbyLimit)
	if err != nil {
		log.Warn().Err(err).Str("city", city).Msg("nearby search failed")
		return nil
	}
	fit := defaultUserFit
	var out []domain.Candidate
	for _, m := range raw {
		p := mapPlace(m)
		if p.Name == "" || p.Coords == nil || hasAnyType(p.Types, mealPlaceTypes) {
			continue
		}
		if r.accept != nil && !r.accept(p.Name) {
			continue
		}
		out = append(out, domain.Candidate{
			Name:          p.Name,
			Address:       p.Address,
			Category:      domain.CategoryCulture,
			Coords:        p.Coords,
			Rating:        p.Rating,
			Votes:         p.Votes,
			PriceLevel:    p.PriceLevel,
			EstimatedCost: CostForPriceLevel(p.PriceLevel),
			DurationMin:   nearbyDurationMin,
			UserFit:       &fit,
			Types:         p.Types,
		})
	}
	return out
}

func hasAnyType(types, want []string) bool {
	for _, t := range types {
		lt := strings.ToLower(t)
		for _, w := range want {
			if lt == w {
				return true
			}
		}
	}
	return false
}
