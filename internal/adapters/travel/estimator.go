package travel

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/rs/zerolog/log"

	"tripplanner/internal/adapters/gateway"
	"tripplanner/internal/domain"
)

// average speeds in m/s used when no routed value is available
var fallbackSpeeds = map[domain.TravelMode]float64{
	domain.ModeWalking:   1.4,
	domain.ModeBicycling: 4.2,
	domain.ModeTransit:   8.3,
	domain.ModeDriving:   13.9,
}

// Router is the route-matrix side of the gateway.
type Router interface {
	RouteMatrix(ctx context.Context, origins, destinations []domain.Coords, mode domain.TravelMode) ([]gateway.MatrixElement, error)
}

// Estimator answers travel-time batches from the cache, then one route
// matrix call per mode, then a great-circle estimate for anything left.
// It never fails: every leg gets a result.
type Estimator struct {
	router Router       // optional
	cache  domain.Cache // optional
	ttl    time.Duration
}

func New(r Router, c domain.Cache, ttl time.Duration) *Estimator {
	return &Estimator{router: r, cache: c, ttl: ttl}
}

type pairResult struct {
	Minutes int `json:"m"`
	Meters  int `json:"d"`
}

func pairKey(l domain.Leg) string {
	return fmt.Sprintf("travel:%s:%.5f,%.5f:%.5f,%.5f", l.Mode, l.Origin.Lat, l.Origin.Lng, l.Dest.Lat, l.Dest.Lng)
}

func (e *Estimator) TravelTimes(ctx context.Context, legs []domain.Leg) ([]domain.TravelResult, error) {
	out := make([]domain.TravelResult, len(legs))
	legs = append([]domain.Leg(nil), legs...)
	byMode := map[domain.TravelMode][]int{}
	for i := range legs {
		if legs[i].Mode == "" {
			legs[i].Mode = domain.ModeDriving
		}
		l := legs[i]
		if e.cache != nil {
			var pr pairResult
			if ok, _ := e.cache.Get(ctx, pairKey(l), &pr); ok {
				out[i] = domain.TravelResult{Minutes: pr.Minutes, Meters: pr.Meters}
				continue
			}
		}
		byMode[l.Mode] = append(byMode[l.Mode], i)
	}
	for mode, idx := range byMode {
		e.route(ctx, mode, legs, idx, out)
	}
	return out, nil
}

// route resolves legs[idx] with one matrix call over the distinct origins and
// destinations, estimating every leg the matrix does not answer.
func (e *Estimator) route(ctx context.Context, mode domain.TravelMode, legs []domain.Leg, idx []int, out []domain.TravelResult) {
	if e.router == nil {
		for _, i := range idx {
			out[i] = Estimate(legs[i])
		}
		return
	}
	origins, oIdx := distinct(legs, idx, func(l domain.Leg) domain.Coords { return l.Origin })
	dests, dIdx := distinct(legs, idx, func(l domain.Leg) domain.Coords { return l.Dest })

	cells := map[[2]int]gateway.MatrixElement{}
	els, err := e.router.RouteMatrix(ctx, origins, dests, mode)
	if err != nil {
		log.Warn().Err(err).Str("mode", string(mode)).Int("legs", len(idx)).Msg("route matrix failed, estimating")
	}
	for _, el := range els {
		cells[[2]int{el.OriginIndex, el.DestinationIndex}] = el
	}

	estimated := 0
	for _, i := range idx {
		el, ok := cells[[2]int{oIdx[i], dIdx[i]}]
		if !ok || !el.OK() {
			out[i] = Estimate(legs[i])
			estimated++
			continue
		}
		out[i] = domain.TravelResult{Minutes: el.Minutes(), Meters: el.DistanceMeters}
		if e.cache != nil && e.ttl > 0 {
			_ = e.cache.Set(ctx, pairKey(legs[i]), pairResult{Minutes: out[i].Minutes, Meters: out[i].Meters}, int(e.ttl.Seconds()))
		}
	}
	if estimated > 0 {
		log.Debug().Str("mode", string(mode)).Int("estimated", estimated).Int("legs", len(idx)).Msg("travel legs estimated")
	}
}

// distinct collects the unique points of legs[idx] and maps each leg index to
// its position in that list.
func distinct(legs []domain.Leg, idx []int, pt func(domain.Leg) domain.Coords) ([]domain.Coords, map[int]int) {
	var pts []domain.Coords
	pos := map[domain.Coords]int{}
	at := make(map[int]int, len(idx))
	for _, i := range idx {
		p := pt(legs[i])
		j, ok := pos[p]
		if !ok {
			j = len(pts)
			pos[p] = j
			pts = append(pts, p)
		}
		at[i] = j
	}
	return pts, at
}

// Estimate is the great-circle distance covered at the mode's average speed.
func Estimate(l domain.Leg) domain.TravelResult {
	speed, ok := fallbackSpeeds[l.Mode]
	if !ok {
		speed = fallbackSpeeds[domain.ModeDriving]
	}
	m := geo.DistanceHaversine(
		orb.Point{l.Origin.Lng, l.Origin.Lat},
		orb.Point{l.Dest.Lng, l.Dest.Lat},
	)
	secs := int(m / speed)
	return domain.TravelResult{Minutes: secs / 60, Meters: int(m), Estimated: true}
}
