package models

import (
	"encoding/json"
	"time"
)

// Notification event types delivered over the per-user channel.
const (
	NotificationChatMessage    = "CHAT_MESSAGE"
	NotificationChatMembership = "CHAT_MEMBERSHIP"
	NotificationMatchChanged   = "MATCH_CHANGED"
	NotificationFeedChanged    = "FEED_CHANGED"
	NotificationCardChanged    = "CARD_CHANGED"
	NotificationPostStatus     = "POST_STATUS"
	NotificationUserDisabled   = "USER_DISABLED"
)

// Notification is a transient event targeted at a single user. It is
// published to redis, routed by the hub to that user's live subscriber, and
// dropped when no subscriber is connected. It is never persisted.
type Notification struct {
	UserID    string          `json:"userId"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
