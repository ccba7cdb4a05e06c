package app

import (
	"fmt"
	"sort"
	"strings"

	"tripplanner/internal/domain"
)

const (
	CheckPreferenceMatch = "preference_match"
	CheckScoring         = "scoring_complete"
	CheckTravelCoverage  = "travel_time_coverage"
	CheckEnergyDensity   = "energy_density"
	CheckMeals           = "meals_complete"
	CheckDuplicates      = "no_duplicates"
)

var expectedActivities = map[domain.Energy]int{
	domain.EnergyLow:    2,
	domain.EnergyMedium: 3,
	domain.EnergyHigh:   4,
}

type AuditInput struct {
	Days        []domain.Day
	Activities  []domain.Candidate // the scored pool
	Preferences []string
	Energy      domain.Energy
	Key         NameKey // nil means VietnameseKey
}

type auditor struct {
	in     AuditInput
	report domain.ComplianceReport
}

func (a *auditor) record(name string, v domain.Verdict, detail string, missing []string, fix string) {
	a.report.Checks = append(a.report.Checks, domain.CheckResult{Name: name, Verdict: v, Detail: detail})
	if v == domain.Pass {
		return
	}
	a.report.MissingItems = append(a.report.MissingItems, missing...)
	if fix != "" {
		a.report.FixSuggestions = append(a.report.FixSuggestions, fix)
	}
}

// Audit grades a finished itinerary against the six scheduling rules.
// It never mutates its input.
func Audit(in AuditInput) domain.ComplianceReport {
	if in.Key == nil {
		in.Key = VietnameseKey
	}
	a := &auditor{in: in}
	a.report.MissingItems = []string{}
	a.report.FixSuggestions = []string{}

	top := topActivities(in.Activities, 20)
	a.preferenceMatch(top)
	a.scoringComplete(top)
	a.travelCoverage(top)
	a.energyDensity()
	a.meals()
	a.duplicates()

	pass, partial := 0, 0
	for _, c := range a.report.Checks {
		switch c.Verdict {
		case domain.Pass:
			pass++
		case domain.Partial:
			partial++
		}
	}
	a.report.Score = (pass*100 + partial*50) / len(a.report.Checks)
	return a.report
}

// topActivities returns the n best-scored candidates of the pool.
func topActivities(pool []domain.Candidate, n int) []domain.Candidate {
	out := append([]domain.Candidate(nil), pool...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func ratioVerdict(r float64) domain.Verdict {
	switch {
	case r >= 0.5:
		return domain.Pass
	case r >= 0.3:
		return domain.Partial
	default:
		return domain.Fail
	}
}

func (a *auditor) preferenceMatch(top []domain.Candidate) {
	var prefs []string
	for _, p := range a.in.Preferences {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			prefs = append(prefs, p)
		}
	}
	if len(prefs) == 0 {
		a.record(CheckPreferenceMatch, domain.Partial, "no stated interests",
			[]string{"no interests provided"}, "Ask the traveller for interests to personalise activities.")
		return
	}
	if len(top) == 0 {
		a.record(CheckPreferenceMatch, domain.Fail, "no activities",
			[]string{"no activities to match against interests"}, "Widen the activity search.")
		return
	}
	matched := 0
	for _, c := range top {
		name := strings.ToLower(c.Name)
		for _, p := range prefs {
			if strings.Contains(name, p) {
				matched++
				break
			}
		}
	}
	r := float64(matched) / float64(len(top))
	v := ratioVerdict(r)
	a.record(CheckPreferenceMatch, v, fmt.Sprintf("%d/%d top activities match interests", matched, len(top)),
		[]string{fmt.Sprintf("only %.0f%% of top activities match interests", r*100)},
		"Run interest-specific searches for: "+strings.Join(prefs, ", ")+".")
}

func (a *auditor) scoringComplete(top []domain.Candidate) {
	if len(top) > 10 {
		top = top[:10]
	}
	var missing []string
	for _, c := range top {
		if c.Rating <= 0 || c.Votes <= 0 || c.Score == 0 {
			missing = append(missing, "incomplete scoring data for "+c.Name)
		}
	}
	if len(top) == 0 || len(missing) > 0 {
		if len(top) == 0 {
			missing = append(missing, "no scored activities")
		}
		a.record(CheckScoring, domain.Partial, fmt.Sprintf("%d of top 10 incomplete", len(missing)),
			missing, "Refresh place details so every top activity has rating and review count.")
		return
	}
	a.record(CheckScoring, domain.Pass, "top activities fully scored", nil, "")
}

func (a *auditor) travelCoverage(top []domain.Candidate) {
	with := 0
	for _, c := range top {
		if c.TravelTimeMin > 0 {
			with++
		}
	}
	r := 0.0
	if len(top) > 0 {
		r = float64(with) / float64(len(top))
	}
	v := ratioVerdict(r)
	a.record(CheckTravelCoverage, v, fmt.Sprintf("%d/%d top activities have travel time", with, len(top)),
		[]string{fmt.Sprintf("travel time computed for %.0f%% of top activities", r*100)},
		"Compute travel times from the hotel for more top activities.")
}

func (a *auditor) energyDensity() {
	want := expectedActivities[a.in.Energy]
	if want == 0 {
		want = expectedActivities[domain.EnergyMedium]
	}
	var missing []string
	for i, d := range a.in.Days {
		n := 0
		for _, s := range d.Segments {
			if s.Category.IsOther() {
				n++
			}
		}
		if n < want-1 {
			missing = append(missing, fmt.Sprintf("day %d has %d activities, expected about %d", i+1, n, want))
		}
	}
	if len(missing) > 0 {
		a.record(CheckEnergyDensity, domain.Partial, fmt.Sprintf("%d day(s) below expected density", len(missing)),
			missing, "Add activities to the sparse days or lower the energy level.")
		return
	}
	a.record(CheckEnergyDensity, domain.Pass, "activity density matches energy", nil, "")
}

func (a *auditor) meals() {
	var missing []string
	for i, d := range a.in.Days {
		have := map[domain.MealTag]int{}
		for _, s := range d.Segments {
			if s.Meal != "" {
				have[s.Meal]++
			}
		}
		for _, m := range []domain.MealTag{domain.MealBreakfast, domain.MealLunch, domain.MealDinner} {
			switch n := have[m]; {
			case n == 0:
				missing = append(missing, fmt.Sprintf("day %d missing %s", i+1, m))
			case n > 1:
				missing = append(missing, fmt.Sprintf("day %d has %d %s entries", i+1, n, m))
			}
		}
	}
	if len(missing) > 0 {
		a.record(CheckMeals, domain.Fail, fmt.Sprintf("%d meal(s) missing", len(missing)),
			missing, "Search more restaurants so every day has breakfast, lunch and dinner.")
		return
	}
	a.record(CheckMeals, domain.Pass, "all meals present", nil, "")
}

func (a *auditor) duplicates() {
	seen := map[string]int{}
	var dups []string
	for _, d := range a.in.Days {
		for _, s := range d.Segments {
			k := a.in.Key(s.Name)
			seen[k]++
			if seen[k] == 2 {
				dups = append(dups, "duplicate place: "+s.Name)
			}
		}
	}
	if len(dups) > 0 {
		a.record(CheckDuplicates, domain.Fail, fmt.Sprintf("%d duplicate place(s)", len(dups)),
			dups, "Replace repeated places with unused candidates.")
		return
	}
	a.record(CheckDuplicates, domain.Pass, "no duplicates", nil, "")
}
