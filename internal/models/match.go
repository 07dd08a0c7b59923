package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Match edge status values. Absence of a row means NOT_MATCHED. Each
// direction is tracked independently; CONFIRMED appears on both rows once
// both sides have approved.
const (
	MatchStatusPotential = "POTENTIAL"
	MatchStatusApproved  = "APPROVED"
	MatchStatusRejected  = "REJECTED"
	MatchStatusConfirmed = "CONFIRMED"
)

// Match is one direction of a dating edge: how UserID currently stands toward
// OtherUserID. The reverse direction lives in its own row.
type Match struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:36;not null;index:idx_match_pair,unique" json:"userId"`
	OtherUserID string    `gorm:"size:36;not null;index:idx_match_pair,unique" json:"otherUserId"`
	Status      string    `gorm:"size:16;not null" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
