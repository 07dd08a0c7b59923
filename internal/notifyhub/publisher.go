package notifyhub

import (
	"socialite/backend/internal/models"
	"socialite/backend/internal/storage"

	"go.uber.org/zap"
)

// publishQueueSize bounds the backlog of undelivered events. A full queue
// drops the newest event, consistent with the at-most-once delivery contract.
const publishQueueSize = 1024

// Publisher fans notification events out through redis without blocking the
// mutation that produced them. Events flow through a single ordered queue, so
// everything one mutation emits for a user reaches redis in the order it was
// published. A nil *Publisher drops everything, which lets tests run services
// without a hub.
type Publisher struct {
	Storage *storage.Service
	Logger  *zap.Logger
	queue   chan models.Notification
}

// NewPublisher builds a publisher over the shared storage service and starts
// its delivery loop.
func NewPublisher(s *storage.Service, logger *zap.Logger) *Publisher {
	p := &Publisher{
		Storage: s,
		Logger:  logger,
		queue:   make(chan models.Notification, publishQueueSize),
	}
	go p.run()
	return p
}

func (p *Publisher) run() {
	for n := range p.queue {
		if err := p.Storage.PublishNotification(n); err != nil {
			p.Logger.Warn("notification publish failed",
				zap.String("userId", n.UserID),
				zap.String("type", n.Type),
				zap.Error(err))
		}
	}
}

// Publish enqueues one event. Failures are logged and swallowed; a mutation
// never fails or blocks because its notification could not be delivered.
func (p *Publisher) Publish(n models.Notification) {
	if p == nil {
		return
	}
	select {
	case p.queue <- n:
	default:
		p.Logger.Warn("notification queue full, event dropped",
			zap.String("userId", n.UserID),
			zap.String("type", n.Type))
	}
}

// PublishAll sends one event per target user, preserving per-user payloads.
func (p *Publisher) PublishAll(userIDs []string, eventType string, payload []byte) {
	if p == nil {
		return
	}
	for _, id := range userIDs {
		p.Publish(models.Notification{UserID: id, Type: eventType, Payload: payload})
	}
}
