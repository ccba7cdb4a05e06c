package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("itinerary: not found")

// SearchClient is the raw-payload side of the external search providers.
// Payload shapes vary per provider; the app layer maps them.
type SearchClient interface {
	SearchPlaces(ctx context.Context, query string, limit int) ([]map[string]any, error)
	SearchNearby(ctx context.Context, query string, center Coords, radiusM, limit int) ([]map[string]any, error)
	SearchHotels(ctx context.Context, q HotelQuery) ([]map[string]any, error)
	SearchTransport(ctx context.Context, q TransportQuery) ([]map[string]any, error)
}

type TravelMode string

const (
	ModeDriving   TravelMode = "driving"
	ModeWalking   TravelMode = "walking"
	ModeBicycling TravelMode = "bicycling"
	ModeTransit   TravelMode = "transit"
)

type Leg struct {
	Origin Coords
	Dest   Coords
	Mode   TravelMode
}

type TravelResult struct {
	Minutes   int
	Meters    int
	Estimated bool // great-circle fallback, not a routed value
}

// TravelTimeService answers many origin/destination pairs in one call,
// returning exactly one result per leg, in order.
type TravelTimeService interface {
	TravelTimes(ctx context.Context, legs []Leg) ([]TravelResult, error)
}

// PreferenceScorer is the opaque 0..1 affinity oracle.
type PreferenceScorer interface {
	PreferenceFit(ctx context.Context, c Candidate, p Preferences) (float64, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type ItineraryRepository interface {
	SaveItinerary(ctx context.Context, it Itinerary) error
	GetItinerary(ctx context.Context, id string) (Itinerary, error)
	ListItineraries(ctx context.Context, q ItineraryQuery) ([]ItinerarySummary, error)
}
