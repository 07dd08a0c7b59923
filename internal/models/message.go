package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message kinds. A SYSTEM message never has an author; an AUTHORED message
// always does. The pairing is enforced by the constructors below rather than
// by convention on a nullable column.
const (
	MessageKindAuthored = "AUTHORED"
	MessageKindSystem   = "SYSTEM"
)

const (
	FlagStatusNotFlagged = "NOT_FLAGGED"
	FlagStatusFlagged    = "FLAGGED"
)

// ChatMessage is a single entry in a chat's ordered sequence. System
// messages (join/leave/rename/create) interleave with authored messages in
// creation order.
type ChatMessage struct {
	ID            string     `gorm:"primaryKey" json:"messageId"`
	ChatID        string     `gorm:"size:36;not null;index:idx_msg_chat" json:"chatId"`
	Kind          string     `gorm:"size:16;not null" json:"kind"`
	AuthorID      *string    `gorm:"size:36" json:"authorUserId"`
	Text          string     `gorm:"type:text;not null" json:"text"`
	TaggedUserIDs []string   `gorm:"serializer:json" json:"textTaggedUserIds"`
	FlagStatus    string     `gorm:"size:16;not null;default:NOT_FLAGGED" json:"flagStatus"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastEditedAt  *time.Time `json:"lastEditedAt"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// IsSystem reports whether the message was synthesized by the chat engine.
func (m *ChatMessage) IsSystem() bool { return m.Kind == MessageKindSystem }

// NewAuthoredMessage builds a human-authored message.
func NewAuthoredMessage(chatID, authorID, text string, taggedUserIDs []string) *ChatMessage {
	return &ChatMessage{
		ChatID:        chatID,
		Kind:          MessageKindAuthored,
		AuthorID:      &authorID,
		Text:          text,
		TaggedUserIDs: taggedUserIDs,
		FlagStatus:    FlagStatusNotFlagged,
	}
}

// NewSystemMessage builds an engine-synthesized message with no author.
func NewSystemMessage(chatID, text string, taggedUserIDs []string) *ChatMessage {
	return &ChatMessage{
		ChatID:        chatID,
		Kind:          MessageKindSystem,
		Text:          text,
		TaggedUserIDs: taggedUserIDs,
		FlagStatus:    FlagStatusNotFlagged,
	}
}

// MessageFlag records that FlaggerID flagged MessageID. One row per
// (message, flagger) pair; the distinct-flagger count drives the deletion
// threshold.
type MessageFlag struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	MessageID string    `gorm:"size:36;not null;index:idx_flag_pair,unique" json:"messageId"`
	FlaggerID string    `gorm:"size:36;not null;index:idx_flag_pair,unique" json:"flaggerId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *MessageFlag) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return
}

// ForceDeletion records that a message authored by AuthorID was removed by
// the flag threshold. Rows accumulate across chats and drive the
// disciplinary auto-disable of repeat offenders.
type ForceDeletion struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	AuthorID  string    `gorm:"size:36;not null;index:idx_forcedel_author" json:"authorId"`
	MessageID string    `gorm:"size:36;not null" json:"messageId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d *ForceDeletion) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return
}
