package storage

import (
	"context"
	"encoding/json"
	"time"

	"socialite/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NotifyChannel is the redis pub/sub channel carrying notification events
// between server instances and into the hub.
const NotifyChannel = "notify:events"

// Service bundles the relational store and the redis connection. Every
// domain service talks to persistence through it.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService builds a storage service over an open gorm DB and redis client.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// AutoMigrate creates or updates every table the system uses.
func (s *Service) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.Block{},
		&models.Follow{},
		&models.Match{},
		&models.Chat{},
		&models.ChatMembership{},
		&models.ChatMessage{},
		&models.MessageFlag{},
		&models.ForceDeletion{},
		&models.Post{},
		&models.PostView{},
		&models.Card{},
	)
}

// Transaction runs fn against a Service bound to a single database
// transaction. Composite writes (chat creation, flag-triggered deletion)
// commit together or not at all.
func (s *Service) Transaction(fn func(tx *Service) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis, Ctx: s.Ctx})
	})
}

// PublishNotification publishes a notification event to redis Pub/Sub.
// Delivery is fire-and-forget; the caller decides whether a failure matters.
func (s *Service) PublishNotification(n models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, NotifyChannel, payload).Err()
}

// SubscribeNotifications subscribes to the notification event channel.
func (s *Service) SubscribeNotifications() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, NotifyChannel)
}
