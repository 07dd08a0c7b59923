package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is content published by a user. Feed and card generation read it;
// posts themselves are peripheral to the chat and relationship engines.
type Post struct {
	ID            string     `gorm:"primaryKey" json:"postId"`
	AuthorID      string     `gorm:"size:36;not null;index:idx_post_author" json:"authorUserId"`
	Text          string     `gorm:"type:text" json:"text"`
	TaggedUserIDs []string   `gorm:"serializer:json" json:"textTaggedUserIds"`
	Archived      bool       `gorm:"not null;default:false" json:"archived"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	DeletedAt     *time.Time `gorm:"index" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// PostView records that a user has seen a post. Used by the card generator
// to auto-dismiss mention cards.
type PostView struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	PostID   string    `gorm:"size:36;not null;index:idx_view_pair,unique" json:"postId"`
	UserID   string    `gorm:"size:36;not null;index:idx_view_pair,unique" json:"userId"`
	ViewedAt time.Time `gorm:"autoCreateTime" json:"viewedAt"`
}

func (v *PostView) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}
