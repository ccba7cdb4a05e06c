package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tripplanner/internal/app"
	"tripplanner/internal/domain"
)

func TestResolveZone_CentroidOfFirstTen(t *testing.T) {
	var top []domain.Candidate
	for i := 0; i < 10; i++ {
		top = append(top, domain.Candidate{Coords: at(10+float64(i%2), 106+float64(i%2))})
	}
	// beyond the sample, must not shift the centroid
	top = append(top, domain.Candidate{Coords: at(50, 50)})
	top = append([]domain.Candidate{{Name: "no coords"}}, top...)

	got := app.ResolveZone(top, domain.Coords{})
	// first ten = no-coords + nine alternating points (5 at 10/106, 4 at 11/107)
	assert.InDelta(t, 10+4.0/9, got.Lat, 1e-9)
	assert.InDelta(t, 106+4.0/9, got.Lng, 1e-9)
}

func TestResolveZone_Fallback(t *testing.T) {
	fb := domain.Coords{Lat: 10.7769, Lng: 106.7009}
	assert.Equal(t, fb, app.ResolveZone(nil, fb))
	assert.Equal(t, fb, app.ResolveZone([]domain.Candidate{{Name: "x"}, {Coords: at(0, 0)}}, fb))
}
