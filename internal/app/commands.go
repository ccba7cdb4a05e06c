package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"tripplanner/internal/domain"
)

const (
	amendQueryLimit     = 20
	amendOverrunMin     = 60
	amendMaxPerDay      = 2
	amendDefaultSegment = 60
)

// AmendRequest adds activities to a stored itinerary. Query, when set, is
// searched in the itinerary's destination; Candidates are used as given.
// Day restricts the additions to one 1-based day; zero means any day.
type AmendRequest struct {
	Query      string             `json:"query,omitempty"`
	Candidates []domain.Candidate `json:"candidates,omitempty"`
	Day        int                `json:"day,omitempty"`
}

// AddActivities appends new activities to the days of itinerary id that have
// time left, keeping every existing segment, the hotel and the budget.
func (s *PlannerService) AddActivities(ctx context.Context, id string, req AmendRequest) (domain.Itinerary, error) {
	it, err := s.GetItinerary(ctx, id)
	if err != nil {
		return domain.Itinerary{}, err
	}
	if req.Day < 0 || req.Day > len(it.Days) {
		return domain.Itinerary{}, fmt.Errorf("%w: day %d outside 1..%d", ErrInvalidRequest, req.Day, len(it.Days))
	}
	energy := domain.ParseEnergy(string(it.Energy))

	fresh := s.amendCandidates(ctx, it, req, energy)
	used := keySet{}
	for _, d := range it.Days {
		for _, seg := range d.Segments {
			used.add(s.cfg.Locale.Key(seg.Name))
		}
	}

	days := make([]domain.Day, len(it.Days))
	for i, d := range it.Days {
		days[i] = d
		days[i].Segments = append([]domain.Segment(nil), d.Segments...)
	}

	// a candidate that does not fit one day stays on offer for the next
	daily := DailyMinutes(energy)
	added := 0
	for di := range days {
		targeted := req.Day == di+1
		if req.Day != 0 && !targeted {
			continue
		}
		remain := daily
		for _, seg := range days[di].Segments {
			remain -= durationOr(seg.DurationMin, amendDefaultSegment) + seg.TravelTimeMin + segmentBufferMin
		}
		onDay := 0
		for _, c := range fresh {
			k := s.cfg.Locale.Key(c.Name)
			if k == "" || used.has(k) {
				continue
			}
			dur := durationOr(c.DurationMin, amendDefaultSegment)
			cost := dur + c.TravelTimeMin + segmentBufferMin
			fits := cost <= remain
			if targeted {
				fits = cost <= remain+amendOverrunMin || onDay == 0
			}
			if !fits {
				log.Debug().Int("day", di+1).Str("name", c.Name).Int("cost", cost).Int("remain", remain).Msg("activity does not fit")
				continue
			}
			days[di].Segments = append(days[di].Segments, segmentFrom(c, dur))
			used.add(k)
			remain -= cost
			onDay++
			added++
			if targeted && (onDay >= amendMaxPerDay || remain < amendOverrunMin) {
				break
			}
		}
		if onDay > 0 {
			attachTravelToNext(ctx, s.travel, days[di].Segments, s.cfg.Mode)
			log.Info().Int("day", di+1).Int("added", onDay).Msg("activities added")
		}
	}

	it.Days = days
	it.Activities = Dedup(s.cfg.Locale, it.Activities, fresh)
	it = s.RepairMealSpacing(ctx, it)
	it.Compliance = s.AuditCompliance(it)
	s.store(ctx, it)
	log.Info().Str("itinerary_id", it.ID).Int("added", added).Int("offered", len(fresh)).Msg("itinerary amended")
	return it, nil
}

// amendCandidates scores the explicit and searched additions, best first.
// Food hits are dropped since every day already has its three meals.
func (s *PlannerService) amendCandidates(ctx context.Context, it domain.Itinerary, req AmendRequest, e domain.Energy) []domain.Candidate {
	cands := append([]domain.Candidate(nil), req.Candidates...)
	if q := strings.TrimSpace(req.Query); q != "" && s.search != nil {
		raw, err := s.search.SearchPlaces(ctx, q+" tại "+it.Destination, amendQueryLimit)
		if err != nil {
			log.Warn().Err(err).Str("query", q).Msg("amend search failed")
		}
		for _, m := range raw {
			if c, ok := NormalizePlace(mapPlace(m), "", PlaceFilter{}); ok {
				cands = append(cands, c)
			}
		}
	}
	var keep []domain.Candidate
	for _, c := range Dedup(s.cfg.Locale, cands) {
		if !c.Category.IsFood() {
			keep = append(keep, c)
		}
	}
	if it.Hotel != nil && it.Hotel.Coords != nil {
		return s.RescoreWithTravelTime(ctx, keep, *it.Hotel.Coords, e, it.Budget.Activities)
	}
	Rescore(keep, e, it.Budget.Activities)
	SortByScore(keep)
	return keep
}

// store persists it and refreshes its cache entry. Failures are logged only.
func (s *PlannerService) store(ctx context.Context, it domain.Itinerary) {
	if s.repo != nil {
		if err := s.repo.SaveItinerary(ctx, it); err != nil {
			log.Error().Err(err).Str("itinerary_id", it.ID).Msg("save itinerary failed")
		}
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, itineraryKey(it.ID))
		s.cacheItinerary(ctx, it)
	}
}
