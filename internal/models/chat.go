package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChatTypeDirect = "DIRECT"
	ChatTypeGroup  = "GROUP"
)

// Chat represents a DIRECT or GROUP conversation.
//
// DIRECT chats carry a PairKey (the sorted member pair) with a unique index,
// which enforces at most one live direct chat per unordered pair at the
// database level. Suppressed marks a direct chat hidden from both members by
// a block; the flag is one-way and survives unblock. A suppressed chat keeps
// its membership rows but drops out of every read path, and its PairKey is
// cleared so the pair may open a fresh direct chat after unblocking.
type Chat struct {
	ID         string    `gorm:"primaryKey" json:"chatId"`
	Type       string    `gorm:"size:8;not null" json:"chatType"`
	Name       *string   `json:"name"`
	PairKey    *string   `gorm:"uniqueIndex" json:"-"`
	Suppressed bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// DirectPairKey builds the canonical unordered pair key for a direct chat.
func DirectPairKey(userID, otherUserID string) string {
	if strings.Compare(userID, otherUserID) > 0 {
		userID, otherUserID = otherUserID, userID
	}
	return userID + "#" + otherUserID
}

// ChatMembership links a user to a chat. One row per (chat, user).
type ChatMembership struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	ChatID   string    `gorm:"size:36;not null;index:idx_member_pair,unique;index:idx_member_chat" json:"chatId"`
	UserID   string    `gorm:"size:36;not null;index:idx_member_pair,unique;index:idx_member_user" json:"userId"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joinedAt"`
}

func (m *ChatMembership) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
