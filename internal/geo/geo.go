// internal/geo/geo.go
package geo

import "math"

// Coordinate and radius bounds shared by the validation gate and the
// query layer. Radius bounds are exclusive at the lower end: 0.1 km
// itself is rejected.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinRadiusKm  = 0.1
	MaxRadiusKm  = 100.0

	earthRadiusKm = 6371.0
)

// Point is a geodetic latitude/longitude pair (WGS 84).
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func ValidLatitude(lat float64) bool {
	return lat >= MinLatitude && lat <= MaxLatitude
}

func ValidLongitude(lng float64) bool {
	return lng >= MinLongitude && lng <= MaxLongitude
}

func ValidRadiusKm(radius float64) bool {
	return radius > MinRadiusKm && radius <= MaxRadiusKm
}

// Distance returns the great-circle distance between two points in
// kilometers (haversine formula). The database computes the same
// quantity with ST_DistanceSphere when filtering and ordering; this
// mirror annotates already fetched rows, keyed by the row's own
// coordinates rather than by result position.
func Distance(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
