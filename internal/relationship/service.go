// Package relationship owns the block and follow state machines, including
// the cross-entity side effects of blocking (direct-chat suppression, follow
// edge teardown).
package relationship

import (
	"errors"
	"fmt"
	"time"

	"socialite/backend/internal/models"
	"socialite/backend/internal/notifyhub"
	"socialite/backend/internal/storage"
	"socialite/backend/internal/visibility"

	"go.uber.org/zap"
)

var (
	ErrNotActive        = errors.New("user is not active")
	ErrInvalidTarget    = errors.New("target user unsuitable for this action")
	ErrSelfTarget       = errors.New("cannot target yourself")
	ErrAlreadyBlocked   = errors.New("user is already blocked")
	ErrNotBlocking      = errors.New("user is not blocked")
	ErrBlockedByTarget  = errors.New("target has blocked you")
	ErrHasBlockedTarget = errors.New("you have blocked the target")
	ErrAlreadyFollowing = errors.New("already following")
	ErrAlreadyRequested = errors.New("follow already requested")
	ErrNotFollowing     = errors.New("no follow edge exists")
	ErrNoRequestFound   = errors.New("no follow request found")
	ErrAlreadyResolved  = errors.New("follow request already resolved")
)

// Service is the relationship engine.
type Service struct {
	Storage *storage.Service
	Events  *notifyhub.Publisher
	Logger  *zap.Logger
}

func NewService(s *storage.Service, events *notifyhub.Publisher, logger *zap.Logger) *Service {
	return &Service{Storage: s, Events: events, Logger: logger}
}

// Snapshot loads the visibility snapshot for a viewer/target pair.
func (s *Service) Snapshot(viewerID, targetID string) (visibility.Snapshot, error) {
	snap := visibility.Snapshot{ViewerID: viewerID, TargetID: targetID}

	viewer, err := s.Storage.GetUserByID(viewerID)
	if err != nil {
		return snap, err
	}
	target, err := s.Storage.GetUserByID(targetID)
	if err != nil {
		return snap, err
	}
	snap.ViewerStatus = viewer.Status
	snap.TargetStatus = target.Status
	snap.TargetPrivacy = target.PrivacyStatus

	if snap.ViewerBlocksTarget, err = s.Storage.BlockExists(viewerID, targetID); err != nil {
		return snap, err
	}
	if snap.TargetBlocksViewer, err = s.Storage.BlockExists(targetID, viewerID); err != nil {
		return snap, err
	}

	follow, err := s.Storage.GetFollow(viewerID, targetID)
	if err != nil {
		return snap, err
	}
	if follow != nil {
		snap.FollowStatus = follow.Status
	}
	return snap, nil
}

// Block creates the directed edge blocker->blocked and tears down the
// pair's shared state: any live direct chat is suppressed for both sides and
// follow and match edges between the pair are removed.
func (s *Service) Block(blockerID, blockedID string) error {
	if blockerID == blockedID {
		return ErrSelfTarget
	}
	blocker, err := s.Storage.GetUserByID(blockerID)
	if err != nil {
		return err
	}
	if !blocker.IsActive() {
		return ErrNotActive
	}
	target, err := s.Storage.GetUserByID(blockedID)
	if err != nil {
		return err
	}
	if target.Status == models.UserStatusAnonymous {
		return ErrInvalidTarget
	}
	exists, err := s.Storage.BlockExists(blockerID, blockedID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyBlocked
	}

	var suppressedChatID string
	err = s.Storage.Transaction(func(tx *storage.Service) error {
		block := &models.Block{BlockerID: blockerID, BlockedID: blockedID, CreatedAt: time.Now()}
		if err := tx.CreateBlock(block); err != nil {
			return err
		}
		// A block forbids following in both directions; drop existing
		// edges rather than leave forbidden state behind.
		if _, err := tx.DeleteFollow(blockerID, blockedID); err != nil {
			return err
		}
		if _, err := tx.DeleteFollow(blockedID, blockerID); err != nil {
			return err
		}
		if err := tx.DeleteMatchesBetween(blockerID, blockedID); err != nil {
			return err
		}
		chat, err := tx.GetDirectChatByPair(blockerID, blockedID)
		if err != nil {
			return err
		}
		if chat != nil {
			suppressedChatID = chat.ID
			return tx.SuppressChat(chat.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("block: %w", err)
	}

	s.Events.Publish(models.Notification{UserID: blockerID, Type: models.NotificationFeedChanged})
	s.Events.Publish(models.Notification{UserID: blockedID, Type: models.NotificationFeedChanged})
	if suppressedChatID != "" {
		payload := []byte(fmt.Sprintf(`{"chatId":%q}`, suppressedChatID))
		s.Events.PublishAll([]string{blockerID, blockedID}, models.NotificationChatMembership, payload)
	}
	return nil
}

// Unblock removes the directed edge blocker->blocked.
func (s *Service) Unblock(blockerID, blockedID string) error {
	if blockerID == blockedID {
		return ErrSelfTarget
	}
	deleted, err := s.Storage.DeleteBlock(blockerID, blockedID)
	if err != nil {
		return fmt.Errorf("unblock: %w", err)
	}
	if deleted == 0 {
		return ErrNotBlocking
	}
	return nil
}

// Follow creates or revives the follower->followed edge. The result status
// is FOLLOWING for PUBLIC targets and REQUESTED for PRIVATE ones.
func (s *Service) Follow(followerID, followedID string) (*models.Follow, error) {
	if followerID == followedID {
		return nil, ErrSelfTarget
	}
	follower, err := s.Storage.GetUserByID(followerID)
	if err != nil {
		return nil, err
	}
	if !follower.IsActive() {
		return nil, ErrNotActive
	}
	target, err := s.Storage.GetUserByID(followedID)
	if err != nil {
		return nil, err
	}
	if target.Status == models.UserStatusAnonymous {
		return nil, ErrInvalidTarget
	}
	if blocked, err := s.Storage.BlockExists(followedID, followerID); err != nil {
		return nil, err
	} else if blocked {
		return nil, ErrBlockedByTarget
	}
	if blocking, err := s.Storage.BlockExists(followerID, followedID); err != nil {
		return nil, err
	} else if blocking {
		return nil, ErrHasBlockedTarget
	}

	status := models.FollowStatusFollowing
	if target.PrivacyStatus == models.PrivacyPrivate {
		status = models.FollowStatusRequested
	}

	existing, err := s.Storage.GetFollow(followerID, followedID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FollowStatusFollowing:
			return nil, ErrAlreadyFollowing
		case models.FollowStatusRequested:
			return nil, ErrAlreadyRequested
		case models.FollowStatusDenied:
			// A denied request may be retried.
			if err := s.Storage.SetFollowStatus(existing.ID, status); err != nil {
				return nil, err
			}
			existing.Status = status
			s.notifyFollowChange(existing)
			return existing, nil
		}
	}

	follow := &models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		Status:     status,
		CreatedAt:  time.Now(),
	}
	if err := s.Storage.CreateFollow(follow); err != nil {
		return nil, fmt.Errorf("follow: %w", err)
	}
	s.notifyFollowChange(follow)
	return follow, nil
}

// Unfollow removes the follower->followed edge entirely, whatever its
// status.
func (s *Service) Unfollow(followerID, followedID string) error {
	deleted, err := s.Storage.DeleteFollow(followerID, followedID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	if deleted == 0 {
		return ErrNotFollowing
	}
	s.Events.Publish(models.Notification{UserID: followerID, Type: models.NotificationFeedChanged})
	return nil
}

// AcceptFollow resolves a REQUESTED edge from followerID to FOLLOWING.
// Only the followed user calls this.
func (s *Service) AcceptFollow(actorID, followerID string) error {
	return s.resolveRequest(actorID, followerID, models.FollowStatusFollowing)
}

// DenyFollow resolves a REQUESTED edge from followerID to DENIED.
func (s *Service) DenyFollow(actorID, followerID string) error {
	return s.resolveRequest(actorID, followerID, models.FollowStatusDenied)
}

func (s *Service) resolveRequest(actorID, followerID, status string) error {
	actor, err := s.Storage.GetUserByID(actorID)
	if err != nil {
		return err
	}
	if !actor.IsActive() {
		return ErrNotActive
	}
	follow, err := s.Storage.GetFollow(followerID, actorID)
	if err != nil {
		return err
	}
	if follow == nil {
		return ErrNoRequestFound
	}
	if follow.Status != models.FollowStatusRequested {
		return ErrAlreadyResolved
	}
	if err := s.Storage.SetFollowStatus(follow.ID, status); err != nil {
		return fmt.Errorf("resolve follow request: %w", err)
	}
	follow.Status = status
	s.notifyFollowChange(follow)
	return nil
}

// notifyFollowChange fans out the feed consequences of a follow edge
// transition. Only a FOLLOWING edge changes the follower's feed membership.
func (s *Service) notifyFollowChange(follow *models.Follow) {
	if follow.Status == models.FollowStatusFollowing {
		s.Events.Publish(models.Notification{UserID: follow.FollowerID, Type: models.NotificationFeedChanged})
	}
	payload := []byte(fmt.Sprintf(`{"followerId":%q,"status":%q}`, follow.FollowerID, follow.Status))
	s.Events.Publish(models.Notification{
		UserID:  follow.FollowedID,
		Type:    models.NotificationFeedChanged,
		Payload: payload,
	})
}
