// Package moderation handles message flagging and the resulting
// disciplinary actions: threshold-based force-deletion of messages and
// auto-disabling of repeat offenders.
package moderation

import (
	"errors"
	"fmt"
	"time"

	"socialite/backend/internal/config"
	"socialite/backend/internal/models"
	"socialite/backend/internal/notifyhub"
	"socialite/backend/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrNotActive         = errors.New("user is not active")
	ErrNotMember         = errors.New("flagger is not a member of this chat")
	ErrCannotFlagSystem  = errors.New("system messages cannot be flagged")
	ErrCannotFlagOwn     = errors.New("cannot flag your own message")
	ErrBlockRelationship = errors.New("a block relationship forbids flagging this message")
	ErrAlreadyFlagged    = errors.New("message already flagged by this user")
)

// Service applies the flagging rules.
type Service struct {
	Storage *storage.Service
	Events  *notifyhub.Publisher
	Logger  *zap.Logger
}

func NewService(s *storage.Service, events *notifyhub.Publisher, logger *zap.Logger) *Service {
	return &Service{Storage: s, Events: events, Logger: logger}
}

// FlagResult reports what a flag caused.
type FlagResult struct {
	Message        *models.ChatMessage
	ForceDeleted   bool
	AuthorDisabled bool
}

// FlagMessage records a flag against a message. Once distinct flaggers
// reach config.FlagDeleteFraction of the chat's membership the message is
// force-deleted; an author who accumulates config.DisableAuthorThreshold
// force-deletions is disabled.
func (s *Service) FlagMessage(flaggerID, messageID string) (*FlagResult, error) {
	msg, err := s.Storage.GetMessage(messageID)
	if err != nil {
		return nil, err
	}
	if msg.IsSystem() {
		return nil, ErrCannotFlagSystem
	}
	flagger, err := s.Storage.GetUserByID(flaggerID)
	if err != nil {
		return nil, err
	}
	if !flagger.IsActive() {
		return nil, ErrNotActive
	}
	if *msg.AuthorID == flaggerID {
		return nil, ErrCannotFlagOwn
	}
	isMember, err := s.Storage.IsMember(msg.ChatID, flaggerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}
	blocked, err := s.Storage.BlockedEitherDirection(flaggerID, *msg.AuthorID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlockRelationship
	}
	already, err := s.Storage.FlagExists(messageID, flaggerID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyFlagged
	}

	flag := &models.MessageFlag{MessageID: messageID, FlaggerID: flaggerID, CreatedAt: time.Now()}
	flagCount, err := s.Storage.CreateFlag(flag)
	if err != nil {
		return nil, fmt.Errorf("flag message: %w", err)
	}

	result := &FlagResult{Message: msg}
	if msg.FlagStatus != models.FlagStatusFlagged {
		msg.FlagStatus = models.FlagStatusFlagged
		if err := s.Storage.SaveMessage(msg); err != nil {
			return nil, err
		}
	}

	memberCount, err := s.Storage.CountMembers(msg.ChatID)
	if err != nil {
		return nil, err
	}
	if memberCount == 0 || float64(flagCount) < config.FlagDeleteFraction*float64(memberCount) {
		return result, nil
	}

	// Threshold reached: the message goes away for everyone.
	totalDeletions, err := s.Storage.ForceDeleteMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("force delete message: %w", err)
	}
	result.ForceDeleted = true

	if totalDeletions >= config.DisableAuthorThreshold {
		if err := s.Storage.SetUserStatus(*msg.AuthorID, models.UserStatusDisabled); err != nil {
			return nil, fmt.Errorf("disable author: %w", err)
		}
		result.AuthorDisabled = true
		s.Events.Publish(models.Notification{
			UserID: *msg.AuthorID,
			Type:   models.NotificationUserDisabled,
		})
	}
	return result, nil
}
