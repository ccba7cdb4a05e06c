package gateway

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"tripplanner/internal/domain"
)

const matrixFieldMask = "originIndex,destinationIndex,duration,distanceMeters,status,condition"

var travelModes = map[domain.TravelMode]string{
	domain.ModeDriving:   "DRIVE",
	domain.ModeWalking:   "WALK",
	domain.ModeBicycling: "BICYCLE",
	domain.ModeTransit:   "TRANSIT",
}

type waypoint struct {
	Waypoint struct {
		Location struct {
			LatLng latLng `json:"latLng"`
		} `json:"location"`
	} `json:"waypoint"`
}

func waypointAt(c domain.Coords) waypoint {
	var w waypoint
	w.Waypoint.Location.LatLng = latLng{Latitude: c.Lat, Longitude: c.Lng}
	return w
}

type matrixRequest struct {
	Origins           []waypoint `json:"origins"`
	Destinations      []waypoint `json:"destinations"`
	TravelMode        string     `json:"travelMode"`
	RoutingPreference string     `json:"routingPreference"`
}

// MatrixElement is one origin/destination cell of a route matrix.
type MatrixElement struct {
	OriginIndex      int             `json:"originIndex"`
	DestinationIndex int             `json:"destinationIndex"`
	Duration         json.RawMessage `json:"duration"`
	DistanceMeters   int             `json:"distanceMeters"`
	Status           json.RawMessage `json:"status"`
	Condition        string          `json:"condition"`
}

// OK is true when the cell carries a usable route. An empty status object
// means success.
func (e MatrixElement) OK() bool {
	if e.Condition == "ROUTE_EXISTS" {
		return true
	}
	s := strings.TrimSpace(string(e.Status))
	return s == `"OK"` || s == "{}"
}

// Seconds parses "3600s", {"seconds": 3600} or a bare number.
func (e MatrixElement) Seconds() int {
	raw := strings.TrimSpace(string(e.Duration))
	if raw == "" || raw == "null" {
		return 0
	}
	var s string
	if json.Unmarshal(e.Duration, &s) == nil {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
		if err != nil {
			return 0
		}
		return int(f)
	}
	var obj struct {
		Seconds json.Number `json:"seconds"`
	}
	if json.Unmarshal(e.Duration, &obj) == nil && obj.Seconds != "" {
		f, _ := obj.Seconds.Float64()
		return int(f)
	}
	var f float64
	if json.Unmarshal(e.Duration, &f) == nil {
		return int(f)
	}
	return 0
}

// Minutes truncates the route duration to whole minutes.
func (e MatrixElement) Minutes() int { return e.Seconds() / 60 }

// RouteMatrix computes every origin x destination route in one call.
// The response may be a bare array or an object with an "elements" key.
func (c *Client) RouteMatrix(ctx context.Context, origins, destinations []domain.Coords, mode domain.TravelMode) ([]MatrixElement, error) {
	tm, ok := travelModes[mode]
	if !ok {
		tm = "DRIVE"
	}
	req := matrixRequest{TravelMode: tm, RoutingPreference: "DEFAULT_ROUTE_OPTIMIZED"}
	if tm == "DRIVE" {
		req.RoutingPreference = "TRAFFIC_AWARE"
	}
	for _, o := range origins {
		req.Origins = append(req.Origins, waypointAt(o))
	}
	for _, d := range destinations {
		req.Destinations = append(req.Destinations, waypointAt(d))
	}

	var raw json.RawMessage
	headers := map[string]string{"X-Goog-FieldMask": matrixFieldMask}
	if err := c.post(ctx, "route_matrix", c.base+"/distanceMatrix/v2:computeRouteMatrix", req, headers, &raw); err != nil {
		return nil, err
	}
	var elems []MatrixElement
	if err := json.Unmarshal(raw, &elems); err == nil {
		return elems, nil
	}
	var wrapped struct {
		Elements []MatrixElement `json:"elements"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Elements, nil
}
