package app

import (
	"strconv"
	"strings"

	"tripplanner/internal/domain"
)

/********** alias registries (single source of truth) **********/

var placeAliases = map[string][]string{
	"name":    {"displayName.text", "display_name", "name", "title"},
	"address": {"formattedAddress", "formatted_address", "address", "vicinity"},
	"status":  {"businessStatus", "business_status"},
}

var placeNumberAliases = map[string][]string{
	"rating": {"rating", "stars", "score"},
	"votes":  {"userRatingCount", "user_ratings_total", "reviews", "votes"},
	"price":  {"priceLevel", "price_level"},
	"lat":    {"location.latitude", "location.lat", "geometry.location.lat", "gps_coordinates.latitude", "lat", "latitude"},
	"lng":    {"location.longitude", "location.lng", "geometry.location.lng", "gps_coordinates.longitude", "lng", "lon", "longitude"},
}

var hotelAliases = map[string][]string{
	"name":    {"name", "title", "property_name"},
	"address": {"address", "formatted_address", "location.address"},
	"price":   {"rate_per_night.extracted_lowest", "price", "price_per_night", "rate"},
	"rating":  {"overall_rating", "rating", "stars"},
	"reviews": {"reviews", "review_count", "user_ratings_total"},
	"lat":     {"gps_coordinates.latitude", "location.lat", "latitude", "lat"},
	"lng":     {"gps_coordinates.longitude", "location.lng", "longitude", "lng", "lon"},
}

var transportAliases = map[string][]string{
	"carrier":   {"airline", "carrier", "flights.0.airline", "operator"},
	"departure": {"departure_time", "departure", "flights.0.departure_airport.time"},
	"arrival":   {"arrival_time", "arrival", "flights.0.arrival_airport.time"},
	"price":     {"price", "total_price", "fare"},
	"duration":  {"total_duration", "duration", "duration_min"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps; numeric parts index slices.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch obj := cur.(type) {
		case map[string]any:
			v, ok := obj[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(obj) {
				return nil
			}
			cur = obj[i]
		default:
			return nil
		}
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// priceLevelFrom accepts both 0..4 integers and PRICE_LEVEL_* enum strings.
func priceLevelFrom(m map[string]any) int {
	if f := getFloatFlexible(m, placeNumberAliases["price"]...); f != nil {
		return int(*f)
	}
	switch strings.ToUpper(firstNonEmptyAlias(m, map[string][]string{"p": placeNumberAliases["price"]}, "p")) {
	case "PRICE_LEVEL_INEXPENSIVE":
		return 1
	case "PRICE_LEVEL_MODERATE":
		return 2
	case "PRICE_LEVEL_EXPENSIVE":
		return 3
	case "PRICE_LEVEL_VERY_EXPENSIVE":
		return 4
	}
	return 0
}

// firstSliceStrings: accept []any with either strings or {name/url}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if n, ok := t["name"].(string); ok && n != "" {
						out = append(out, n)
					} else if u, ok := t["url"].(string); ok && u != "" {
						out = append(out, u)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func coordsFrom(m map[string]any, latPaths, lngPaths []string) *domain.Coords {
	lat, lng := getFloatFlexible(m, latPaths...), getFloatFlexible(m, lngPaths...)
	if lat == nil || lng == nil {
		return nil
	}
	return &domain.Coords{Lat: *lat, Lng: *lng}
}

/********** place mapper **********/

func mapPlace(p map[string]any) domain.RawPlace {
	photos := firstSliceStrings(p, "photos", "images", "thumbnail")
	hasPhotos := len(photos) > 0
	if !hasPhotos {
		if v, ok := lookupAny(p, "has_photos").(bool); ok {
			hasPhotos = v
		}
	}
	return domain.RawPlace{
		Name:           firstNonEmptyAlias(p, placeAliases, "name"),
		Address:        firstNonEmptyAlias(p, placeAliases, "address"),
		Rating:         floatOr(getFloatFlexible(p, placeNumberAliases["rating"]...), 0),
		Votes:          int(floatOr(getFloatFlexible(p, placeNumberAliases["votes"]...), 0)),
		PriceLevel:     priceLevelFrom(p),
		Coords:         coordsFrom(p, placeNumberAliases["lat"], placeNumberAliases["lng"]),
		Types:          firstSliceStrings(p, "types", "type", "categories"),
		HasPhotos:      hasPhotos,
		BusinessStatus: firstNonEmptyAlias(p, placeAliases, "status"),
	}
}

/********** hotel mapper **********/

func mapHotel(h map[string]any) domain.Hotel {
	return domain.Hotel{
		Name:          firstNonEmptyAlias(h, hotelAliases, "name"),
		Address:       firstNonEmptyAlias(h, hotelAliases, "address"),
		Coords:        coordsFrom(h, hotelAliases["lat"], hotelAliases["lng"]),
		Rating:        floatOr(getFloatFlexible(h, hotelAliases["rating"]...), 0),
		Reviews:       int(floatOr(getFloatFlexible(h, hotelAliases["reviews"]...), 0)),
		PricePerNight: int64(floatOr(getFloatFlexible(h, hotelAliases["price"]...), 0)),
	}
}

/********** transport mapper **********/

func mapTransport(t map[string]any) domain.TransportOption {
	stops := 0
	if legs, ok := lookupAny(t, "flights").([]any); ok && len(legs) > 1 {
		stops = len(legs) - 1
	} else if f := getFloatFlexible(t, "stops"); f != nil {
		stops = int(*f)
	}
	return domain.TransportOption{
		Carrier:   firstNonEmptyAlias(t, transportAliases, "carrier"),
		Departure: firstNonEmptyAlias(t, transportAliases, "departure"),
		Arrival:   firstNonEmptyAlias(t, transportAliases, "arrival"),
		Price:     int64(floatOr(getFloatFlexible(t, transportAliases["price"]...), 0)),
		Duration:  int(floatOr(getFloatFlexible(t, transportAliases["duration"]...), 0)),
		Stops:     stops,
	}
}
