// Package cards derives ephemeral user-facing cards from domain events:
// post mentions and the standing profile-photo prompt.
package cards

import (
	"errors"
	"fmt"
	"time"

	"socialite/backend/internal/models"
	"socialite/backend/internal/notifyhub"
	"socialite/backend/internal/storage"

	"go.uber.org/zap"
)

var ErrNotOwner = errors.New("card belongs to another user")

// Service evaluates the card rules.
type Service struct {
	Storage *storage.Service
	Events  *notifyhub.Publisher
	Logger  *zap.Logger
}

func NewService(s *storage.Service, events *notifyhub.Publisher, logger *zap.Logger) *Service {
	return &Service{Storage: s, Events: events, Logger: logger}
}

// SyncMentionCards reconciles a post's mention cards with its current tag
// set. Called on post creation and on every edit.
//
// For each newly tagged user a card appears unless that user authored the
// post, already viewed it, or dismissed an earlier card for the same post.
// Tags removed by an edit take their live card with them; dismissed
// tombstones stay put.
func (s *Service) SyncMentionCards(post *models.Post, previousTags []string) error {
	current := make(map[string]bool, len(post.TaggedUserIDs))
	for _, id := range post.TaggedUserIDs {
		current[id] = true
	}

	for _, id := range previousTags {
		if current[id] {
			continue
		}
		if err := s.Storage.DeleteMentionCard(id, post.ID); err != nil {
			return fmt.Errorf("remove mention card: %w", err)
		}
		s.Events.Publish(models.Notification{UserID: id, Type: models.NotificationCardChanged})
	}

	author, err := s.Storage.GetUserByID(post.AuthorID)
	if err != nil {
		return err
	}
	for _, id := range post.TaggedUserIDs {
		if id == post.AuthorID {
			continue
		}
		existing, err := s.Storage.GetMentionCard(id, post.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			// Live card already present, or a dismissed tombstone that
			// must not be resurrected.
			continue
		}
		viewed, err := s.Storage.HasViewedPost(post.ID, id)
		if err != nil {
			return err
		}
		if viewed {
			continue
		}
		card := &models.Card{
			OwnerID:   id,
			Kind:      models.CardKindPostMention,
			Title:     fmt.Sprintf("@%s tagged you in a post", author.Username),
			Action:    fmt.Sprintf("/posts/%s", post.ID),
			PostID:    &post.ID,
			CreatedAt: time.Now(),
		}
		if err := s.Storage.SaveCard(card); err != nil {
			return fmt.Errorf("create mention card: %w", err)
		}
		s.Events.Publish(models.Notification{UserID: id, Type: models.NotificationCardChanged})
	}
	return nil
}

// OnPostDeleted removes every mention card derived from the post,
// tombstones included.
func (s *Service) OnPostDeleted(postID string) error {
	return s.Storage.DeleteCardsForPost(postID)
}

// OnPostViewed auto-dismisses the viewer's mention card for the post.
func (s *Service) OnPostViewed(postID, viewerID string) error {
	card, err := s.Storage.GetMentionCard(viewerID, postID)
	if err != nil {
		return err
	}
	if card == nil || card.Dismissed {
		return nil
	}
	if err := s.Storage.DismissCard(card.ID); err != nil {
		return err
	}
	s.Events.Publish(models.Notification{UserID: viewerID, Type: models.NotificationCardChanged})
	return nil
}

// DeleteCard explicitly dismisses a card. Owner-only.
func (s *Service) DeleteCard(requesterID, cardID string) error {
	card, err := s.Storage.GetCard(cardID)
	if err != nil {
		return err
	}
	if card.OwnerID != requesterID {
		return ErrNotOwner
	}
	if card.Dismissed {
		return storage.ErrNotFound
	}
	if err := s.Storage.DismissCard(cardID); err != nil {
		return err
	}
	s.Events.Publish(models.Notification{UserID: requesterID, Type: models.NotificationCardChanged})
	return nil
}

// ListCards returns the user's live cards newest-first, with the standing
// profile-photo prompt appended for users lacking a photo. The prompt is
// synthesized here rather than stored.
func (s *Service) ListCards(userID string, limit, offset int) ([]*models.Card, error) {
	cards, err := s.Storage.ListCards(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.PhotoURL == "" && len(cards) < limit {
		cards = append(cards, s.profilePhotoPrompt(userID))
	}
	return cards, nil
}

// CardCount counts the user's live cards, photo prompt included.
func (s *Service) CardCount(userID string) (int64, error) {
	count, err := s.Storage.CountCards(userID)
	if err != nil {
		return 0, err
	}
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return 0, err
	}
	if user.PhotoURL == "" {
		count++
	}
	return count, nil
}

func (s *Service) profilePhotoPrompt(userID string) *models.Card {
	return &models.Card{
		ID:      "profile-photo:" + userID,
		OwnerID: userID,
		Kind:    models.CardKindProfilePhoto,
		Title:   "Add a profile photo",
		Action:  "/settings/photo",
	}
}
