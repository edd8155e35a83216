// internal/geo/geo_test.go
package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidLatitude(t *testing.T) {
	assert.True(t, ValidLatitude(0))
	assert.True(t, ValidLatitude(-90))
	assert.True(t, ValidLatitude(90))
	assert.True(t, ValidLatitude(-23.5505))

	assert.False(t, ValidLatitude(90.0001))
	assert.False(t, ValidLatitude(-91))
	assert.False(t, ValidLatitude(999))
}

func TestValidLongitude(t *testing.T) {
	assert.True(t, ValidLongitude(0))
	assert.True(t, ValidLongitude(-180))
	assert.True(t, ValidLongitude(180))
	assert.True(t, ValidLongitude(-46.6333))

	assert.False(t, ValidLongitude(180.0001))
	assert.False(t, ValidLongitude(-181))
}

func TestValidRadiusKm(t *testing.T) {
	// The lower bound is exclusive, the upper bound inclusive.
	assert.False(t, ValidRadiusKm(0.1))
	assert.True(t, ValidRadiusKm(0.10001))
	assert.True(t, ValidRadiusKm(10))
	assert.True(t, ValidRadiusKm(100))

	assert.False(t, ValidRadiusKm(0))
	assert.False(t, ValidRadiusKm(-5))
	assert.False(t, ValidRadiusKm(100.01))
	assert.False(t, ValidRadiusKm(200))
}

func TestDistanceZero(t *testing.T) {
	p := Point{Latitude: -23.5505, Longitude: -46.6333}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistanceKnownPairs(t *testing.T) {
	saoPaulo := Point{Latitude: -23.5505, Longitude: -46.6333}
	rio := Point{Latitude: -22.9068, Longitude: -43.1729}

	// Great-circle distance between the two city centers is ~357 km.
	d := Distance(saoPaulo, rio)
	assert.InDelta(t, 357, d, 5)

	// One degree of latitude on the meridian is ~111.19 km.
	d = Distance(Point{Latitude: 0, Longitude: 0}, Point{Latitude: 1, Longitude: 0})
	assert.InDelta(t, 111.19, d, 0.1)
}

func TestDistanceSymmetry(t *testing.T) {
	a := Point{Latitude: -23.5505, Longitude: -46.6333}
	b := Point{Latitude: -3.7319, Longitude: -38.5267}

	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}
