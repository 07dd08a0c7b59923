package storage

import (
	"errors"

	"socialite/backend/internal/models"

	"gorm.io/gorm"
)

// SaveCard inserts or updates a card.
func (s *Service) SaveCard(card *models.Card) error {
	return s.DB.Save(card).Error
}

// GetCard fetches a card by id, dismissed or not.
func (s *Service) GetCard(cardID string) (*models.Card, error) {
	var card models.Card
	err := s.DB.First(&card, "id = ?", cardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// GetMentionCard fetches the mention card (live or tombstoned) for an
// owner/post pair, nil when none was ever created.
func (s *Service) GetMentionCard(ownerID, postID string) (*models.Card, error) {
	var card models.Card
	err := s.DB.First(&card,
		"owner_id = ? AND post_id = ? AND kind = ?",
		ownerID, postID, models.CardKindPostMention).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// ListCards returns the owner's live cards, newest first.
func (s *Service) ListCards(ownerID string, limit, offset int) ([]*models.Card, error) {
	var cards []*models.Card
	err := s.DB.Where("owner_id = ? AND dismissed = ?", ownerID, false).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&cards).Error
	return cards, err
}

// CountCards counts the owner's live cards.
func (s *Service) CountCards(ownerID string) (int64, error) {
	var cnt int64
	err := s.DB.Model(&models.Card{}).
		Where("owner_id = ? AND dismissed = ?", ownerID, false).
		Count(&cnt).Error
	return cnt, err
}

// DismissCard tombstones a card.
func (s *Service) DismissCard(cardID string) error {
	return s.DB.Model(&models.Card{}).Where("id = ?", cardID).
		Update("dismissed", true).Error
}

// DeleteCardsForPost removes every mention card derived from a post,
// tombstones included. Used when the post itself is deleted.
func (s *Service) DeleteCardsForPost(postID string) error {
	return s.DB.Where("post_id = ?", postID).Delete(&models.Card{}).Error
}

// DeleteMentionCard removes a live mention card for an owner/post pair.
// Used when an edit removes the tag. Dismissed tombstones stay so a later
// edit that re-adds the tag cannot resurrect a card the user dismissed.
func (s *Service) DeleteMentionCard(ownerID, postID string) error {
	return s.DB.
		Where("owner_id = ? AND post_id = ? AND kind = ? AND dismissed = ?",
			ownerID, postID, models.CardKindPostMention, false).
		Delete(&models.Card{}).Error
}
