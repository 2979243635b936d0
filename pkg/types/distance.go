package types

import "math"

const earthRadiusKm = 6371.0088

// IsZero reports whether the point is unset (0,0 is treated as missing).
func (g GeographyPoint) IsZero() bool {
	return g.Lat == 0 && g.Lng == 0
}

// Valid reports whether the coordinates are finite and within WGS84 bounds.
func (g GeographyPoint) Valid() bool {
	if math.IsNaN(g.Lat) || math.IsNaN(g.Lng) || math.IsInf(g.Lat, 0) || math.IsInf(g.Lng, 0) {
		return false
	}
	return g.Lat >= -90 && g.Lat <= 90 && g.Lng >= -180 && g.Lng <= 180
}

// DistanceKm returns the great-circle (haversine) distance between two points.
func (g GeographyPoint) DistanceKm(other GeographyPoint) float64 {
	lat1 := degreesToRadians(g.Lat)
	lat2 := degreesToRadians(other.Lat)
	dLat := lat2 - lat1
	dLng := degreesToRadians(other.Lng - g.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// guard against rounding pushing h just past 1
	h = math.Min(1, math.Max(0, h))
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
