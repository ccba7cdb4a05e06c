package gateway

import (
	"context"
	"net/url"
	"strconv"

	"tripplanner/internal/domain"
)

const (
	maxPlaceResults = 60
	placeFieldMask  = "places.displayName,places.formattedAddress,places.rating,places.userRatingCount," +
		"places.location,places.priceLevel,places.types,places.photos,places.businessStatus"
)

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type textSearchRequest struct {
	TextQuery      string        `json:"textQuery"`
	MaxResultCount int           `json:"maxResultCount"`
	LanguageCode   string        `json:"languageCode"`
	LocationBias   *locationBias `json:"locationBias,omitempty"`
}

type placesResponse struct {
	Places []map[string]any `json:"places"`
}

// SearchPlaces runs a text search. Hits are returned as raw payloads.
func (c *Client) SearchPlaces(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	return c.searchText(ctx, "places_text", textSearchRequest{
		TextQuery:      query,
		MaxResultCount: clampLimit(limit),
		LanguageCode:   "vi",
	})
}

// SearchNearby is a text search biased to a circle around center.
func (c *Client) SearchNearby(ctx context.Context, query string, center domain.Coords, radiusM, limit int) ([]map[string]any, error) {
	return c.searchText(ctx, "places_nearby", textSearchRequest{
		TextQuery:      query,
		MaxResultCount: clampLimit(limit),
		LanguageCode:   "vi",
		LocationBias:   &locationBias{Circle: circle{
			Center: latLng{Latitude: center.Lat, Longitude: center.Lng},
			Radius: float64(radiusM),
		}},
	})
}

func (c *Client) searchText(ctx context.Context, endpoint string, req textSearchRequest) ([]map[string]any, error) {
	var out placesResponse
	headers := map[string]string{"X-Goog-FieldMask": placeFieldMask, "Accept-Language": "vi"}
	if err := c.post(ctx, endpoint, c.base+"/v1/places:searchText", req, headers, &out); err != nil {
		return nil, err
	}
	return out.Places, nil
}

// SearchHotels queries the hotel engine around q.Near.
func (c *Client) SearchHotels(ctx context.Context, q domain.HotelQuery) ([]map[string]any, error) {
	v := url.Values{}
	v.Set("engine", "google_hotels")
	v.Set("q", "khách sạn tại "+q.City)
	v.Set("check_in_date", q.CheckIn)
	v.Set("check_out_date", q.CheckOut)
	v.Set("adults", strconv.Itoa(max(q.Adults, 1)))
	v.Set("currency", "VND")
	v.Set("gl", "vn")
	v.Set("hl", "vi")
	if q.Budget > 0 {
		v.Set("max_price", strconv.FormatInt(int64(q.Budget), 10))
	}
	if q.Near.Lat != 0 || q.Near.Lng != 0 {
		v.Set("ll", "@"+strconv.FormatFloat(q.Near.Lat, 'f', 6, 64)+","+strconv.FormatFloat(q.Near.Lng, 'f', 6, 64)+",14z")
	}
	var out struct {
		Properties []map[string]any `json:"properties"`
	}
	if err := c.get(ctx, "hotels", c.base+"/search?"+v.Encode(), &out); err != nil {
		return nil, err
	}
	if q.Limit > 0 && len(out.Properties) > q.Limit {
		out.Properties = out.Properties[:q.Limit]
	}
	return out.Properties, nil
}

// SearchTransport queries the flight engine for a round trip.
func (c *Client) SearchTransport(ctx context.Context, q domain.TransportQuery) ([]map[string]any, error) {
	v := url.Values{}
	v.Set("engine", "google_flights")
	v.Set("departure_id", q.Origin)
	v.Set("arrival_id", q.Destination)
	v.Set("outbound_date", q.Outbound)
	if q.Return != "" && q.Return != q.Outbound {
		v.Set("return_date", q.Return)
		v.Set("type", "1")
	} else {
		v.Set("type", "2")
	}
	v.Set("adults", strconv.Itoa(max(q.Adults, 1)))
	v.Set("currency", "VND")
	v.Set("hl", "vi")
	var out struct {
		Best  []map[string]any `json:"best_flights"`
		Other []map[string]any `json:"other_flights"`
	}
	if err := c.get(ctx, "flights", c.base+"/search?"+v.Encode(), &out); err != nil {
		return nil, err
	}
	return append(out.Best, out.Other...), nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return 20
	}
	return min(n, maxPlaceResults)
}
