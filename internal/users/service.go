// Package users covers account lifecycle and the visibility-gated profile
// query.
package users

import (
	"errors"
	"fmt"
	"regexp"

	"socialite/backend/internal/models"
	"socialite/backend/internal/notifyhub"
	"socialite/backend/internal/storage"
	"socialite/backend/internal/visibility"

	"go.uber.org/zap"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrUsernameTaken = errors.New("username already taken")
	ErrNotActive     = errors.New("user is not active")
)

var usernameRE = regexp.MustCompile(`^[A-Za-z0-9_.]{3,64}$`)

// Snapshotter loads relationship snapshots; implemented by the relationship
// service.
type Snapshotter interface {
	Snapshot(viewerID, targetID string) (visibility.Snapshot, error)
}

// Service is the account engine.
type Service struct {
	Storage   *storage.Service
	Snapshots Snapshotter
	Events    *notifyhub.Publisher
	Logger    *zap.Logger
}

func NewService(s *storage.Service, snapshots Snapshotter, events *notifyhub.Publisher, logger *zap.Logger) *Service {
	return &Service{Storage: s, Snapshots: snapshots, Events: events, Logger: logger}
}

// Create signs a user up with defaults: ACTIVE, PUBLIC, dating disabled.
func (s *Service) Create(username string) (*models.User, error) {
	if !usernameRE.MatchString(username) {
		return nil, fmt.Errorf("%w: bad username %q", ErrValidation, username)
	}
	if existing, err := s.Storage.GetUserByUsername(username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	user := &models.User{
		Username:      username,
		Status:        models.UserStatusActive,
		PrivacyStatus: models.PrivacyPublic,
		DatingStatus:  models.DatingDisabled,
	}
	if err := s.Storage.CreateUser(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Disable transitions a user to DISABLED and notifies them.
func (s *Service) Disable(userID string) error {
	if _, err := s.Storage.GetUserByID(userID); err != nil {
		return err
	}
	if err := s.Storage.SetUserStatus(userID, models.UserStatusDisabled); err != nil {
		return err
	}
	s.Events.Publish(models.Notification{UserID: userID, Type: models.NotificationUserDisabled})
	return nil
}

// Enable transitions a DISABLED user back to ACTIVE. DELETING is terminal.
func (s *Service) Enable(userID string) error {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.Status != models.UserStatusDisabled {
		return fmt.Errorf("%w: cannot enable user in status %s", ErrValidation, user.Status)
	}
	return s.Storage.SetUserStatus(userID, models.UserStatusActive)
}

// SetPrivacy flips a user's privacy status. Going PUBLIC auto-resolves
// pending follow requests is intentionally NOT done here; requests stay
// REQUESTED until accepted.
func (s *Service) SetPrivacy(userID, privacy string) error {
	if privacy != models.PrivacyPublic && privacy != models.PrivacyPrivate {
		return fmt.Errorf("%w: unknown privacy status %q", ErrValidation, privacy)
	}
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !user.IsActive() {
		return ErrNotActive
	}
	user.PrivacyStatus = privacy
	if err := s.Storage.SaveUser(user); err != nil {
		return err
	}
	s.Events.Publish(models.Notification{UserID: userID, Type: models.NotificationFeedChanged})
	return nil
}

// Profile is a user as one viewer sees it. Restricted fields are pointers:
// nil means "not visible to you", which is distinct from present-but-empty.
type Profile struct {
	*models.User
	BlockedStatus string    `json:"blockedStatus"`
	FollowStatus  string    `json:"followStatus,omitempty"`
	BlockedUsers  *[]string `json:"blockedUsers,omitempty"`
	ChatCount     *int64    `json:"chatCount,omitempty"`
}

// GetProfile resolves a user for a viewer, applying the visibility rules.
// Self-only fields (blockedUsers, chatCount) stay nil for everyone else.
func (s *Service) GetProfile(viewerID, targetID string) (*Profile, error) {
	snap, err := s.Snapshots.Snapshot(viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if !snap.CanViewProfile() {
		return nil, storage.ErrNotFound
	}
	target, err := s.Storage.GetUserByID(targetID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		User:          target,
		BlockedStatus: snap.BlockedStatus(),
		FollowStatus:  snap.FollowStatus,
	}
	if snap.IsSelf() {
		blocked, err := s.Storage.ListBlockedUserIDs(targetID, 100, 0)
		if err != nil {
			return nil, err
		}
		if blocked == nil {
			blocked = []string{}
		}
		profile.BlockedUsers = &blocked

		chatCount, err := s.Storage.CountChatsForUser(targetID)
		if err != nil {
			return nil, err
		}
		profile.ChatCount = &chatCount
	}
	return profile, nil
}
