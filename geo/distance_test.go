package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKmSamePoint(t *testing.T) {
	p := Point{Lat: 40.7128, Lon: -74.0060}
	assert.InDelta(t, 0, DistanceKm(p, p), 1e-9)
}

func TestDistanceKmKnownPair(t *testing.T) {
	// New York to London is roughly 5570 km
	nyc := Point{Lat: 40.7128, Lon: -74.0060}
	london := Point{Lat: 51.5074, Lon: -0.1278}
	assert.InDelta(t, 5570, DistanceKm(nyc, london), 15)
	assert.InDelta(t, DistanceKm(nyc, london), DistanceKm(london, nyc), 1e-9)
}

func TestDistanceKmOneDegreeLatitude(t *testing.T) {
	d := DistanceKm(Point{Lat: 0, Lon: 0}, Point{Lat: 1, Lon: 0})
	assert.InDelta(t, 111.19, d, 0.01)
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Lat: 45, Lon: 120}.Valid())
	assert.False(t, Point{Lat: 91, Lon: 0}.Valid())
	assert.False(t, Point{Lat: 0, Lon: -181}.Valid())
}
