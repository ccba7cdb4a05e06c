package app

import (
	"context"
	"encoding/json"
	"fmt"

	"tripplanner/internal/domain"
)

func itineraryKey(id string) string { return fmt.Sprintf("itinerary:%s", id) }

// GetItinerary reads through the cache to the repository.
func (s *PlannerService) GetItinerary(ctx context.Context, id string) (domain.Itinerary, error) {
	key := itineraryKey(id)
	var it domain.Itinerary
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &it); ok {
			return it, nil
		}
	}
	if s.repo == nil {
		return domain.Itinerary{}, domain.ErrNotFound
	}
	it, err := s.repo.GetItinerary(ctx, id)
	if err != nil {
		return domain.Itinerary{}, err
	}
	s.cacheItinerary(ctx, it)
	return it, nil
}

func (s *PlannerService) cacheItinerary(ctx context.Context, it domain.Itinerary) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	// optional size guard
	if b, _ := json.Marshal(it); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, itineraryKey(it.ID), it, int(s.cfg.CacheTTL.Seconds()))
	}
}

// ListItineraries returns the newest stored itineraries, optionally for one destination.
func (s *PlannerService) ListItineraries(ctx context.Context, q domain.ItineraryQuery) ([]domain.ItinerarySummary, error) {
	if s.repo == nil {
		return []domain.ItinerarySummary{}, nil
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	return s.repo.ListItineraries(ctx, q)
}
