package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialite/backend/internal/api/handler"
	"socialite/backend/internal/cards"
	"socialite/backend/internal/chat"
	"socialite/backend/internal/config"
	"socialite/backend/internal/feed"
	"socialite/backend/internal/match"
	"socialite/backend/internal/moderation"
	"socialite/backend/internal/notifyhub"
	"socialite/backend/internal/relationship"
	"socialite/backend/internal/storage"
	"socialite/backend/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config, logger *zap.Logger) *storage.Service {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}

	s := storage.NewService(db, rdb)
	if err := s.AutoMigrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database and redis connections established, migrations complete")
	return s
}

func main() {
	// Missing .env is fine in containers; env comes from the orchestrator.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.FromEnv()
	s := setupDependencies(cfg, logger)

	hub := notifyhub.NewManager(s, logger)
	go hub.Run()
	events := notifyhub.NewPublisher(s, logger)

	relationshipSvc := relationship.NewService(s, events, logger)
	matchSvc := match.NewService(s, events, logger)
	chatSvc := chat.NewService(s, events, logger)
	moderationSvc := moderation.NewService(s, events, logger)
	cardSvc := cards.NewService(s, events, logger)
	feedSvc := feed.NewService(s, cardSvc, events, logger)
	userSvc := users.NewService(s, relationshipSvc, events, logger)

	r := gin.Default()
	h := &handler.Handler{
		Storage:      s,
		Users:        userSvc,
		Relationship: relationshipSvc,
		Match:        matchSvc,
		Chat:         chatSvc,
		Moderation:   moderationSvc,
		Feed:         feedSvc,
		Cards:        cardSvc,
		Hub:          hub,
		JWTSecret:    []byte(cfg.JWTSecret),
		Logger:       logger,
	}
	h.RegisterRoutes(r)

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        corsWrapper.Handler(r),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
