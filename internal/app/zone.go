package app

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"tripplanner/internal/domain"
)

const zoneSampleSize = 10

// ResolveZone returns the centroid of those among the first ten candidates
// that carry coordinates, or fallback when none do. It only biases the hotel search.
func ResolveZone(top []domain.Candidate, fallback domain.Coords) domain.Coords {
	if len(top) > zoneSampleSize {
		top = top[:zoneSampleSize]
	}
	var mp orb.MultiPoint
	for _, c := range top {
		if c.Coords == nil || (c.Coords.Lat == 0 && c.Coords.Lng == 0) {
			continue
		}
		mp = append(mp, orb.Point{c.Coords.Lng, c.Coords.Lat})
	}
	if len(mp) == 0 {
		return fallback
	}
	c, _ := planar.CentroidArea(mp)
	return domain.Coords{Lat: c.Lat(), Lng: c.Lon()}
}
