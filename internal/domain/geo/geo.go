package geo

import "math"

// EarthRadiusMiles is the mean radius of Earth used for Haversine distance.
const EarthRadiusMiles = 3_959.0

// KmPerMile converts statute miles to kilometres.
const KmPerMile = 1.609344

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Unit is a user-facing distance unit. Distances are miles internally.
type Unit string

const (
	// Miles is the canonical unit.
	Miles Unit = "mi"
	// Kilometers is accepted and returned at the HTTP boundary only.
	Kilometers Unit = "km"
)

// IsValid reports whether u is a supported unit.
func (u Unit) IsValid() bool { return u == Miles || u == Kilometers }

// FromMiles converts a distance in miles into u.
func (u Unit) FromMiles(mi float64) float64 {
	if u == Kilometers {
		return MilesToKm(mi)
	}
	return mi
}

// ToMiles converts a distance expressed in u into miles.
func (u Unit) ToMiles(d float64) float64 {
	if u == Kilometers {
		return KmToMiles(d)
	}
	return d
}

// MilesToKm converts miles to kilometres.
func MilesToKm(mi float64) float64 { return mi * KmPerMile }

// KmToMiles converts kilometres to miles.
func KmToMiles(km float64) float64 { return km / KmPerMile }

// DistanceMiles returns the great-circle distance in miles between two points
// specified by latitude and longitude in degrees. NaN inputs yield NaN.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push a a hair above 1 for antipodal points.
	a = math.Min(a, 1)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

// Distance returns the distance in miles between p and q.
func (p Point) Distance(q Point) float64 {
	return DistanceMiles(p.Lat, p.Lng, q.Lat, q.Lng)
}

// Valid reports whether p holds finite, in-range coordinates.
func (p Point) Valid() bool {
	return ValidateCoordinates(p.Lat, p.Lng)
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
// NaN fails both comparisons and is rejected.
func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
