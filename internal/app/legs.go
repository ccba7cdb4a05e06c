package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"tripplanner/internal/domain"
)

// attachTravelToNext fills TravelToNextMin and DistanceToNextM for every
// consecutive pair of segments that both carry coordinates, using a single
// batched call. On error the affected legs are set to zero.
func attachTravelToNext(ctx context.Context, tt domain.TravelTimeService, segs []domain.Segment, mode domain.TravelMode) {
	if len(segs) < 2 {
		return
	}
	var legs []domain.Leg
	var idx []int
	for i := 0; i < len(segs)-1; i++ {
		segs[i].TravelToNextMin, segs[i].DistanceToNextM = nil, nil
		a, b := segs[i].Coords, segs[i+1].Coords
		if a == nil || b == nil {
			continue
		}
		legs = append(legs, domain.Leg{Origin: *a, Dest: *b, Mode: mode})
		idx = append(idx, i)
	}
	if len(legs) == 0 {
		return
	}
	var res []domain.TravelResult
	var err error
	if tt != nil {
		res, err = tt.TravelTimes(ctx, legs)
	}
	if tt == nil || err != nil || len(res) != len(legs) {
		if err != nil {
			log.Warn().Err(err).Int("legs", len(legs)).Msg("within-day travel lookup failed")
		}
		res = make([]domain.TravelResult, len(legs))
	}
	for j, i := range idx {
		mins, meters := res[j].Minutes, res[j].Meters
		segs[i].TravelToNextMin = &mins
		segs[i].DistanceToNextM = &meters
	}
}
