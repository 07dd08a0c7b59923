package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User account status values. ACTIVE and DISABLED convert into each other;
// DELETING is terminal; ANONYMOUS accounts never become targets of social
// actions.
const (
	UserStatusActive    = "ACTIVE"
	UserStatusDisabled  = "DISABLED"
	UserStatusAnonymous = "ANONYMOUS"
	UserStatusDeleting  = "DELETING"
)

const (
	PrivacyPublic  = "PUBLIC"
	PrivacyPrivate = "PRIVATE"
)

const (
	DatingDisabled = "DISABLED"
	DatingEnabled  = "ENABLED"
)

// User represents an account in the system, including the profile fields the
// dating match criteria evaluate and the photo URL the card generator checks.
type User struct {
	ID            string `gorm:"primaryKey" json:"id"`
	Username      string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Status        string `gorm:"size:16;not null;default:ACTIVE" json:"status"`
	PrivacyStatus string `gorm:"size:16;not null;default:PUBLIC" json:"privacyStatus"`
	DatingStatus  string `gorm:"size:16;not null;default:DISABLED" json:"datingStatus"`

	// PhotoURL is empty until the user uploads a profile photo. An empty
	// value keeps the profile-photo prompt card alive.
	PhotoURL string `json:"photoUrl"`

	// Profile attributes evaluated by the dating match criteria.
	Age       int     `json:"age"`
	Gender    string  `gorm:"size:16" json:"gender"`
	HeightCM  int     `json:"heightCm"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Match preferences. MatchGenders is stored as JSON so it round-trips
	// through both the postgres and sqlite drivers.
	MatchAgeMin      int      `json:"matchAgeMin"`
	MatchAgeMax      int      `json:"matchAgeMax"`
	MatchGenders     []string `gorm:"serializer:json" json:"matchGenders"`
	MatchRadiusKM    float64  `json:"matchRadiusKm"`
	MatchHeightMinCM int      `json:"matchHeightMinCm"`
	MatchHeightMaxCM int      `json:"matchHeightMaxCm"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates a new UUID for the user when the ID is not set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// IsActive reports whether the user may act in the system.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }
