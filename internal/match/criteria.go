package match

import (
	"math"

	"socialite/backend/internal/models"
)

const earthRadiusKM = 6371.0

// haversineKM returns the great-circle distance between two coordinates.
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}

// satisfiesCriteria reports whether the candidate fits the seeker's match
// preferences. Unset bounds (zero values) do not constrain.
func satisfiesCriteria(seeker, candidate *models.User) bool {
	if seeker.MatchAgeMin > 0 && candidate.Age < seeker.MatchAgeMin {
		return false
	}
	if seeker.MatchAgeMax > 0 && candidate.Age > seeker.MatchAgeMax {
		return false
	}
	if len(seeker.MatchGenders) > 0 {
		found := false
		for _, g := range seeker.MatchGenders {
			if g == candidate.Gender {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if seeker.MatchHeightMinCM > 0 && candidate.HeightCM < seeker.MatchHeightMinCM {
		return false
	}
	if seeker.MatchHeightMaxCM > 0 && candidate.HeightCM > seeker.MatchHeightMaxCM {
		return false
	}
	if seeker.MatchRadiusKM > 0 {
		if haversineKM(seeker.Latitude, seeker.Longitude,
			candidate.Latitude, candidate.Longitude) > seeker.MatchRadiusKM {
			return false
		}
	}
	return true
}

// MutualMatch reports whether two users satisfy each other's criteria and
// both have dating enabled. The predicate is symmetric.
func MutualMatch(a, b *models.User) bool {
	if a.DatingStatus != models.DatingEnabled || b.DatingStatus != models.DatingEnabled {
		return false
	}
	if !a.IsActive() || !b.IsActive() {
		return false
	}
	return satisfiesCriteria(a, b) && satisfiesCriteria(b, a)
}
