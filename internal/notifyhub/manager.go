package notifyhub

import (
	"encoding/json"

	"socialite/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Subscriber is the slice of storage the hub needs: a redis subscription to
// the notification event channel.
type Subscriber interface {
	SubscribeNotifications() *redis.PubSub
}

// Manager routes notification events to live per-user subscribers. Events
// for a user with no connected client are dropped; there is no backlog or
// replay. All state is owned by the Run loop, so no locks are needed.
type Manager struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client

	// PubSubCh carries events bridged in from redis. Exported so tests can
	// inject events without a redis round-trip.
	PubSubCh chan models.Notification

	Subscriber Subscriber
	Logger     *zap.Logger
}

// NewManager builds a hub over the given subscriber.
func NewManager(sub Subscriber, logger *zap.Logger) *Manager {
	return &Manager{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan models.Notification, 256),
		Subscriber:   sub,
		Logger:       logger,
	}
}

// startPubSubListener bridges the redis event channel into PubSubCh.
func (m *Manager) startPubSubListener() {
	if m.Subscriber == nil {
		return
	}
	go func() {
		pubsub := m.Subscriber.SubscribeNotifications()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var n models.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				m.Logger.Warn("bad notification payload", zap.Error(err))
				continue
			}
			m.PubSubCh <- n
		}
	}()
}

// Run is the hub's main loop. It owns the client map.
func (m *Manager) Run() {
	m.startPubSubListener()

	for {
		select {
		case client := <-m.RegisterCh:
			// A newer connection replaces an older one for the same user.
			if old, ok := m.Clients[client.GetUserID()]; ok {
				old.Close()
			}
			m.Clients[client.GetUserID()] = client

		case client := <-m.UnregisterCh:
			if current, ok := m.Clients[client.GetUserID()]; ok && current == client {
				delete(m.Clients, client.GetUserID())
				client.Close()
			}

		case n := <-m.PubSubCh:
			client, ok := m.Clients[n.UserID]
			if !ok {
				// No subscriber: drop, per the at-most-once contract.
				continue
			}
			select {
			case client.GetSendChannel() <- n:
			default:
				// Slow subscriber: evict rather than block the hub.
				delete(m.Clients, n.UserID)
				client.Close()
				m.Logger.Warn("evicted slow subscriber", zap.String("userId", n.UserID))
			}
		}
	}
}
