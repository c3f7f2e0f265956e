package services

import "math"

// Coordinate exposes a candidate's position to Nearest.
type Coordinate interface {
	Latitude() float64
	Longitude() float64
}

// Nearest returns the candidate with the smallest squared planar distance
// to (lat, lng). Ties keep the earliest candidate. Candidates whose distance
// is NaN are skipped. ok is false when nothing qualifies.
//
// Planar distance on raw degrees is only a fair approximation inside a
// single venue; it is not a geodesic distance.
func Nearest[T Coordinate](candidates []T, lat, lng float64) (best T, ok bool) {
	bestDist := math.Inf(1)
	for _, c := range candidates {
		dLat := c.Latitude() - lat
		dLng := c.Longitude() - lng
		d := dLat*dLat + dLng*dLng
		if math.IsNaN(d) {
			continue
		}
		if !ok || d < bestDist {
			best, bestDist, ok = c, d, true
		}
	}
	return best, ok
}
