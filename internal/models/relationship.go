package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow edge status values.
const (
	FollowStatusRequested = "REQUESTED"
	FollowStatusFollowing = "FOLLOWING"
	FollowStatusDenied    = "DENIED"
)

// Block is a directed edge: BlockerID has blocked BlockedID. The composite
// unique index forbids duplicate edges per ordered pair.
type Block struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	BlockerID string    `gorm:"size:36;not null;index:idx_block_pair,unique" json:"blockerId"`
	BlockedID string    `gorm:"size:36;not null;index:idx_block_pair,unique" json:"blockedId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b *Block) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

// Follow is a directed edge: FollowerID follows (or has requested to follow)
// FollowedID. At most one edge exists per ordered pair; the edge is deleted
// entirely on unfollow.
type Follow struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	FollowerID string    `gorm:"size:36;not null;index:idx_follow_pair,unique" json:"followerId"`
	FollowedID string    `gorm:"size:36;not null;index:idx_follow_pair,unique" json:"followedId"`
	Status     string    `gorm:"size:16;not null" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return
}
