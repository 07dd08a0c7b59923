package notifyhub

import "socialite/backend/internal/models"

// Client is the interface for one live subscription to a user's
// notification channel. It abstracts the underlying transport so the hub can
// manage websocket and test clients uniformly.
type Client interface {
	// GetUserID returns the id of the user whose channel this client is
	// subscribed to.
	GetUserID() string

	// GetSendChannel returns the channel the hub writes this client's
	// events into. It is a send-only channel.
	GetSendChannel() chan<- models.Notification

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and channels.
	Close()
}
