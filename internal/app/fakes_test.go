package app_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"tripplanner/internal/domain"
)

// ---- search ----

// fakeSearch answers a query with the hits of the first rule whose substring
// it contains. Every call is recorded.
type fakeSearch struct {
	mu      sync.Mutex
	rules   []searchRule
	nearby  []map[string]any
	hotels  []map[string]any
	flights []map[string]any
	queries []string
	err     error
}

type searchRule struct {
	contains string
	hits     []map[string]any
}

func (f *fakeSearch) SearchPlaces(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.rules {
		if strings.Contains(query, r.contains) {
			if len(r.hits) > limit {
				return r.hits[:limit], nil
			}
			return r.hits, nil
		}
	}
	return nil, nil
}

func (f *fakeSearch) SearchNearby(ctx context.Context, query string, center domain.Coords, radiusM, limit int) ([]map[string]any, error) {
	return f.nearby, f.err
}

func (f *fakeSearch) SearchHotels(ctx context.Context, q domain.HotelQuery) ([]map[string]any, error) {
	return f.hotels, f.err
}

func (f *fakeSearch) SearchTransport(ctx context.Context, q domain.TransportQuery) ([]map[string]any, error) {
	return f.flights, f.err
}

func (f *fakeSearch) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func place(name, kind string, rating float64, votes int, lat, lng float64) map[string]any {
	return map[string]any{
		"displayName":     map[string]any{"text": name},
		"rating":          rating,
		"userRatingCount": votes,
		"types":           []any{kind},
		"location":        map[string]any{"latitude": lat, "longitude": lng},
	}
}

// ---- travel ----

// fakeTravel returns a fixed number of minutes per leg, or a per-destination
// override keyed by latitude.
type fakeTravel struct {
	mu      sync.Mutex
	minutes int
	byLat   map[float64]int
	err     error
	batches []int
}

func (f *fakeTravel) TravelTimes(ctx context.Context, legs []domain.Leg) ([]domain.TravelResult, error) {
	f.mu.Lock()
	f.batches = append(f.batches, len(legs))
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.TravelResult, len(legs))
	for i, l := range legs {
		m := f.minutes
		if v, ok := f.byLat[l.Dest.Lat]; ok {
			m = v
		}
		out[i] = domain.TravelResult{Minutes: m, Meters: m * 250}
	}
	return out, nil
}

// ---- preference fit ----

type fakeFit struct{ score float64 }

func (f fakeFit) PreferenceFit(ctx context.Context, c domain.Candidate, p domain.Preferences) (float64, error) {
	return f.score, nil
}

// ---- repository ----

type fakeRepo struct {
	mu    sync.Mutex
	items map[string]domain.Itinerary
	gets  int
	saves int
	lastQ domain.ItineraryQuery
}

func (f *fakeRepo) SaveItinerary(ctx context.Context, it domain.Itinerary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items == nil {
		f.items = map[string]domain.Itinerary{}
	}
	f.items[it.ID] = it
	f.saves++
	return nil
}

func (f *fakeRepo) GetItinerary(ctx context.Context, id string) (domain.Itinerary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	it, ok := f.items[id]
	if !ok {
		return domain.Itinerary{}, domain.ErrNotFound
	}
	return it, nil
}

func (f *fakeRepo) ListItineraries(ctx context.Context, q domain.ItineraryQuery) ([]domain.ItinerarySummary, error) {
	f.lastQ = q
	var out []domain.ItinerarySummary
	for _, it := range f.items {
		out = append(out, domain.ItinerarySummary{ID: it.ID, Destination: it.Destination, Days: len(it.Days)})
	}
	return out, nil
}

// ---- cache ----

// fakeCache round-trips values through JSON like the redis cache does.
type fakeCache struct {
	store map[string][]byte
	hits  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// ---- candidate builders ----

func pfloat(f float64) *float64 { return &f }

func at(lat, lng float64) *domain.Coords { return &domain.Coords{Lat: lat, Lng: lng} }

func food(name string) domain.Candidate {
	return domain.Candidate{Name: name, Category: domain.CategoryFood, Rating: 4.5, Votes: 300, DurationMin: 60}
}

func drink(name string) domain.Candidate {
	return domain.Candidate{Name: name, Category: domain.CategoryDrink, Rating: 4.4, Votes: 200, DurationMin: 45}
}

func sight(name string, dur int) domain.Candidate {
	return domain.Candidate{Name: name, Category: domain.CategoryAttraction, Rating: 4.6, Votes: 800, DurationMin: dur}
}
