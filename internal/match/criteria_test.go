package match_test

import (
	"testing"

	"socialite/backend/internal/match"
	"socialite/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func datingUser(username string) *models.User {
	return &models.User{
		ID:           username,
		Username:     username,
		Status:       models.UserStatusActive,
		DatingStatus: models.DatingEnabled,
		Age:          30,
		Gender:       "female",
		HeightCM:     170,
	}
}

func TestMutualMatch_ZeroCriteriaMatchEverything(t *testing.T) {
	a := datingUser("a")
	b := datingUser("b")
	b.Gender = "male"
	b.Age = 55

	assert.True(t, match.MutualMatch(a, b))
}

func TestMutualMatch_RequiresDatingEnabledAndActive(t *testing.T) {
	a := datingUser("a")
	b := datingUser("b")

	b.DatingStatus = models.DatingDisabled
	assert.False(t, match.MutualMatch(a, b))

	b.DatingStatus = models.DatingEnabled
	b.Status = models.UserStatusDisabled
	assert.False(t, match.MutualMatch(a, b))
}

func TestMutualMatch_AgeBounds(t *testing.T) {
	a := datingUser("a")
	a.MatchAgeMin = 25
	a.MatchAgeMax = 35

	b := datingUser("b")
	b.Age = 24
	assert.False(t, match.MutualMatch(a, b))

	b.Age = 25
	assert.True(t, match.MutualMatch(a, b))

	b.Age = 36
	assert.False(t, match.MutualMatch(a, b))
}

func TestMutualMatch_GenderPreference(t *testing.T) {
	a := datingUser("a")
	a.MatchGenders = []string{"male", "non-binary"}

	b := datingUser("b")
	b.Gender = "female"
	assert.False(t, match.MutualMatch(a, b))

	b.Gender = "non-binary"
	assert.True(t, match.MutualMatch(a, b))
}

func TestMutualMatch_HeightBounds(t *testing.T) {
	a := datingUser("a")
	a.MatchHeightMinCM = 160
	a.MatchHeightMaxCM = 180

	b := datingUser("b")
	b.HeightCM = 150
	assert.False(t, match.MutualMatch(a, b))

	b.HeightCM = 175
	assert.True(t, match.MutualMatch(a, b))
}

func TestMutualMatch_Radius(t *testing.T) {
	a := datingUser("a")
	a.Latitude, a.Longitude = 52.52, 13.405 // Berlin
	a.MatchRadiusKM = 100

	b := datingUser("b")
	b.Latitude, b.Longitude = 52.4, 13.06 // Potsdam, ~30 km away
	assert.True(t, match.MutualMatch(a, b))

	b.Latitude, b.Longitude = 48.137, 11.575 // Munich, ~500 km away
	assert.False(t, match.MutualMatch(a, b))
}

// TestMutualMatch_BothDirections verifies the predicate fails when only one
// side's criteria are satisfied.
func TestMutualMatch_BothDirections(t *testing.T) {
	a := datingUser("a")
	b := datingUser("b")
	b.MatchAgeMax = 25 // a is 30: b's criteria reject a

	assert.False(t, match.MutualMatch(a, b))
	assert.False(t, match.MutualMatch(b, a), "predicate is symmetric")
}
