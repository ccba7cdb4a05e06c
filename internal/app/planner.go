package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tripplanner/internal/domain"
)

var ErrInvalidRequest = errors.New("itinerary: invalid request")

const (
	DateLayout      = "2006-01-02"
	defaultTripDays = 3
	MaxTripDays     = 30
	minRankedPool   = 80
	rescoreTopN     = 10
	defaultAdults   = 2
)

type PlannerDeps struct {
	Search domain.SearchClient
	Fit    domain.PreferenceScorer
	Travel domain.TravelTimeService
	Repo   domain.ItineraryRepository // optional
	Cache  domain.Cache               // optional
}

type PlannerConfig struct {
	Locale        Locale
	Mode          domain.TravelMode
	Fallback      domain.Coords
	Filter        PlaceFilter
	Workers       int
	DefaultBudget int64
	CacheTTL      time.Duration
}

// PlannerService drives one itinerary build end to end: collection, scoring,
// hotel choice, scheduling, repair and audit.
type PlannerService struct {
	search domain.SearchClient
	fit    domain.PreferenceScorer
	travel domain.TravelTimeService
	repo   domain.ItineraryRepository
	cache  domain.Cache
	cfg    PlannerConfig

	collector *Collector
	scheduler *Scheduler
	repairer  *Repairer
	now       func() time.Time
}

func NewPlannerService(d PlannerDeps, cfg PlannerConfig) *PlannerService {
	if cfg.Locale.Key == nil {
		cfg.Locale = VietnameseLocale()
	}
	if cfg.Mode == "" {
		cfg.Mode = domain.ModeDriving
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.DefaultBudget <= 0 {
		cfg.DefaultBudget = DefaultBudgetVND
	}
	return &PlannerService{
		search:    d.Search,
		fit:       d.Fit,
		travel:    d.Travel,
		repo:      d.Repo,
		cache:     d.Cache,
		cfg:       cfg,
		collector: NewCollector(CollectorConfig{Search: d.Search, Locale: cfg.Locale, Filter: cfg.Filter, Workers: cfg.Workers}),
		scheduler: NewScheduler(SchedulerConfig{Locale: cfg.Locale, Travel: d.Travel, Mode: cfg.Mode}),
		repairer:  NewRepairer(RepairerConfig{Locale: cfg.Locale, Travel: d.Travel, Search: d.Search, Mode: cfg.Mode}),
		now:       time.Now,
	}
}

// Plan builds, persists and returns a complete itinerary for req.
func (s *PlannerService) Plan(ctx context.Context, req domain.PlanRequest) (domain.Itinerary, error) {
	city := strings.TrimSpace(req.Destination)
	if city == "" {
		return domain.Itinerary{}, fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	start, end := s.tripDates(req.StartDate, req.EndDate)
	days := int(end.Sub(start).Hours()/24) + 1
	if days > MaxTripDays {
		log.Warn().Str("start", start.Format(DateLayout)).Str("end", end.Format(DateLayout)).Int("max_days", MaxTripDays).Msg("trip too long, clamped")
		days = MaxTripDays
		end = start.AddDate(0, 0, days-1)
	}
	energy := domain.ParseEnergy(string(req.Energy))
	style := domain.ParseStyle(string(req.Style))
	total := req.BudgetVND
	if total <= 0 {
		total = s.cfg.DefaultBudget
	}
	alloc := AllocateBudget(total, style)
	prefs := domain.Preferences{Interests: req.Interests, LongTerm: req.LongTerm, Energy: energy, Style: style}

	pool := s.rankCandidates(ctx, city, days, prefs, alloc.Activities)
	zone := ResolveZone(pool, s.cfg.Fallback)

	var (
		hotels    []domain.Hotel
		transport []domain.TransportOption
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hotels = s.findHotels(gctx, city, start, end, zone, alloc.Hotel, style)
		return nil
	})
	g.Go(func() error {
		transport = s.findTransport(gctx, req.Origin, city, start, end)
		return nil
	})
	_ = g.Wait()

	var hotel *domain.Hotel
	if len(hotels) > 0 {
		h := hotels[0]
		hotel = &h
	}

	it := s.BuildItinerary(ctx, BuildRequest{
		Destination: city,
		Candidates:  pool,
		Hotel:       hotel,
		Days:        days,
		Start:       start,
		Energy:      energy,
		Style:       style,
		Budget:      alloc,
		Preferences: req.Interests,
	})
	it.Transport = transport
	s.store(ctx, it)
	log.Info().
		Str("itinerary_id", it.ID).
		Str("destination", city).
		Int("days", days).
		Int("compliance", it.Compliance.Score).
		Int("violations", len(it.Violations)).
		Msg("itinerary planned")
	return it, nil
}

type BuildRequest struct {
	Destination string
	Candidates  []domain.Candidate // scored pool, best first
	Hotel       *domain.Hotel
	Days        int
	Start       time.Time
	Energy      domain.Energy
	Style       domain.SpendingStyle
	Budget      domain.BudgetAllocation
	Preferences []string
}

// BuildItinerary runs the scheduling core over an already collected pool:
// rescoring against the hotel, partitioning, day scheduling, meal repair and
// the compliance audit. It does not persist the result.
func (s *PlannerService) BuildItinerary(ctx context.Context, br BuildRequest) domain.Itinerary {
	if br.Days < 1 {
		br.Days = 1
	}
	if br.Start.IsZero() {
		br.Start = s.today()
	}
	pool := br.Candidates
	if br.Hotel != nil && br.Hotel.Coords != nil {
		pool = s.RescoreWithTravelTime(ctx, pool, *br.Hotel.Coords, br.Energy, br.Budget.Activities)
	}
	pool = Dedup(s.cfg.Locale, pool)

	days := s.scheduler.Build(ctx, BuildInput{
		Pools:  Partition(pool),
		Days:   br.Days,
		Energy: br.Energy,
		Hotel:  br.Hotel,
		Start:  br.Start,
	})
	days, violations := s.repairer.Repair(ctx, RepairInput{
		Days:           days,
		Pool:           pool,
		Energy:         br.Energy,
		ActivityBudget: br.Budget.Activities,
		City:           br.Destination,
	})
	report := Audit(AuditInput{
		Days:        days,
		Activities:  pool,
		Preferences: br.Preferences,
		Energy:      br.Energy,
		Key:         s.cfg.Locale.Key,
	})

	return domain.Itinerary{
		ID:            uuid.NewString(),
		Destination:   br.Destination,
		StartDate:     br.Start.Format(DateLayout),
		Energy:        br.Energy,
		SpendingStyle: br.Style,
		Preferences:   br.Preferences,
		Budget:        br.Budget,
		Hotel:         br.Hotel,
		Activities:    pool,
		Days:          days,
		Violations:    violations,
		Compliance:    report,
		CreatedAt:     s.now().UTC(),
	}
}

// RepairMealSpacing re-runs the meal repair over it and returns the updated copy.
func (s *PlannerService) RepairMealSpacing(ctx context.Context, it domain.Itinerary) domain.Itinerary {
	days, violations := s.repairer.Repair(ctx, RepairInput{
		Days:           it.Days,
		Pool:           it.Activities,
		Energy:         domain.ParseEnergy(string(it.Energy)),
		ActivityBudget: it.Budget.Activities,
		City:           it.Destination,
	})
	it.Days = days
	it.Violations = violations
	return it
}

// AuditCompliance grades it without modifying it.
func (s *PlannerService) AuditCompliance(it domain.Itinerary) domain.ComplianceReport {
	return Audit(AuditInput{
		Days:        it.Days,
		Activities:  it.Activities,
		Preferences: it.Preferences,
		Energy:      domain.ParseEnergy(string(it.Energy)),
		Key:         s.cfg.Locale.Key,
	})
}

// RescoreWithTravelTime measures travel from ref to the ten best candidates
// that have coordinates in one batch, zeroes everyone else's travel time,
// rescores and re-sorts. The input slice is not modified.
func (s *PlannerService) RescoreWithTravelTime(ctx context.Context, cands []domain.Candidate, ref domain.Coords, e domain.Energy, activityBudget int64) []domain.Candidate {
	out := append([]domain.Candidate(nil), cands...)
	var (
		legs []domain.Leg
		idx  []int
	)
	for i := range out {
		out[i].TravelTimeMin = 0
		if len(legs) < rescoreTopN && out[i].Coords != nil {
			legs = append(legs, domain.Leg{Origin: ref, Dest: *out[i].Coords, Mode: s.cfg.Mode})
			idx = append(idx, i)
		}
	}
	if len(legs) > 0 && s.travel != nil {
		res, err := s.travel.TravelTimes(ctx, legs)
		switch {
		case err != nil:
			log.Warn().Err(err).Int("legs", len(legs)).Msg("hotel travel lookup failed")
		case len(res) != len(legs):
			log.Warn().Int("legs", len(legs)).Int("results", len(res)).Msg("hotel travel lookup returned a short batch")
		default:
			for j, i := range idx {
				out[i].TravelTimeMin = res[j].Minutes
			}
		}
	}
	Rescore(out, e, activityBudget)
	SortByScore(out)
	return out
}

// rankCandidates collects, scores and trims the candidate pool. Sightseeing is
// capped at max(80, days*10); food and drinks are kept whole since every day
// needs three meals and a drink.
func (s *PlannerService) rankCandidates(ctx context.Context, city string, days int, prefs domain.Preferences, activityBudget int64) []domain.Candidate {
	cands := s.collector.Collect(ctx, city, days, prefs.Interests)
	s.scoreFit(ctx, cands, prefs)
	Rescore(cands, prefs.Energy, activityBudget)
	SortByScore(cands)

	keep := max(minRankedPool, days*10)
	out := make([]domain.Candidate, 0, len(cands))
	others := 0
	for _, c := range cands {
		if c.Category.IsOther() {
			if others >= keep {
				continue
			}
			others++
		}
		out = append(out, c)
	}
	return out
}

// scoreFit asks the preference oracle about every candidate concurrently.
// An oracle error leaves UserFit unset, which scores as neutral.
func (s *PlannerService) scoreFit(ctx context.Context, cands []domain.Candidate, prefs domain.Preferences) {
	if s.fit == nil {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range cands {
		i := i
		g.Go(func() error {
			f, err := s.fit.PreferenceFit(gctx, cands[i], prefs)
			if err != nil {
				log.Debug().Err(err).Str("name", cands[i].Name).Msg("preference fit unavailable")
				return nil
			}
			f = min(max(f, 0), 1)
			cands[i].UserFit = &f
			return nil
		})
	}
	_ = g.Wait()
}

func (s *PlannerService) findHotels(ctx context.Context, city string, start, end time.Time, near domain.Coords, budget int64, style domain.SpendingStyle) []domain.Hotel {
	if s.search == nil {
		return nil
	}
	nights := Nights(start, end)
	raw, err := s.search.SearchHotels(ctx, domain.HotelQuery{
		City:     city,
		CheckIn:  start.Format(DateLayout),
		CheckOut: end.Format(DateLayout),
		Budget:   float64(budget) / float64(nights),
		Near:     near,
		Adults:   defaultAdults,
		Limit:    hotelSearchLimit,
	})
	if err != nil {
		log.Warn().Err(err).Str("city", city).Msg("hotel search failed")
		return nil
	}
	hotels := make([]domain.Hotel, 0, len(raw))
	for _, m := range raw {
		hotels = append(hotels, mapHotel(m))
	}
	return RankHotels(hotels, budget, nights, style)
}

func (s *PlannerService) findTransport(ctx context.Context, origin, city string, start, end time.Time) []domain.TransportOption {
	if s.search == nil || strings.TrimSpace(origin) == "" {
		return nil
	}
	raw, err := s.search.SearchTransport(ctx, domain.TransportQuery{
		Origin:      origin,
		Destination: city,
		Outbound:    start.Format(DateLayout),
		Return:      end.Format(DateLayout),
		Adults:      defaultAdults,
	})
	if err != nil {
		log.Warn().Err(err).Str("origin", origin).Msg("transport search failed")
		return nil
	}
	out := make([]domain.TransportOption, 0, len(raw))
	for _, m := range raw {
		if t := mapTransport(m); t.Carrier != "" || t.Price > 0 {
			out = append(out, t)
		}
	}
	return out
}

// tripDates defaults malformed input: a bad start is today, a bad or missing
// end gives a three-day trip, and an end before the start is swapped.
func (s *PlannerService) tripDates(startStr, endStr string) (time.Time, time.Time) {
	start, err := time.Parse(DateLayout, strings.TrimSpace(startStr))
	if err != nil {
		start = s.today()
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(endStr))
	if err != nil {
		end = start.AddDate(0, 0, defaultTripDays-1)
	}
	if end.Before(start) {
		start, end = end, start
	}
	return start, end
}

func (s *PlannerService) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}
