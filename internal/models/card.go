package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CardKindPostMention  = "POST_MENTION"
	CardKindProfilePhoto = "PROFILE_PHOTO"
)

// Card is an ephemeral user-facing prompt derived from a domain event.
// Dismissed cards keep their row as a tombstone so the same trigger (for
// example an edit that re-adds a tag) does not resurrect them.
//
// PROFILE_PHOTO cards are never stored; the read path synthesizes one for
// any user without a profile photo.
type Card struct {
	ID        string    `gorm:"primaryKey" json:"cardId"`
	OwnerID   string    `gorm:"size:36;not null;index:idx_card_owner" json:"ownerUserId"`
	Kind      string    `gorm:"size:24;not null" json:"kind"`
	Title     string    `gorm:"not null" json:"title"`
	SubTitle  string    `json:"subTitle"`
	Action    string    `gorm:"not null" json:"action"`
	Thumbnail *string   `json:"thumbnail"`
	PostID    *string   `gorm:"size:36;index:idx_card_post" json:"-"`
	Dismissed bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Card) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
