package storage

import (
	"errors"
	"time"

	"socialite/backend/internal/models"

	"gorm.io/gorm"
)

// SaveMessage inserts or updates a chat message.
func (s *Service) SaveMessage(msg *models.ChatMessage) error {
	return s.DB.Save(msg).Error
}

// GetMessage fetches a message by id.
func (s *Service) GetMessage(messageID string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := s.DB.First(&msg, "id = ?", messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns the chat's message sequence in creation order.
func (s *Service) ListMessages(chatID string, limit, offset int) ([]*models.ChatMessage, error) {
	var msgs []*models.ChatMessage
	err := s.DB.Where("chat_id = ?", chatID).
		Order("created_at").Limit(limit).Offset(offset).
		Find(&msgs).Error
	return msgs, err
}

// DeleteMessage removes a message and any flags recorded against it.
func (s *Service) DeleteMessage(messageID string) error {
	return s.Transaction(func(tx *Service) error {
		if err := tx.DB.Where("message_id = ?", messageID).
			Delete(&models.MessageFlag{}).Error; err != nil {
			return err
		}
		return tx.DB.Where("id = ?", messageID).Delete(&models.ChatMessage{}).Error
	})
}

// FlagExists reports whether the flagger already flagged the message.
func (s *Service) FlagExists(messageID, flaggerID string) (bool, error) {
	var cnt int64
	err := s.DB.Model(&models.MessageFlag{}).
		Where("message_id = ? AND flagger_id = ?", messageID, flaggerID).
		Count(&cnt).Error
	return cnt > 0, err
}

// CreateFlag records a flag and returns the new distinct-flagger count.
func (s *Service) CreateFlag(flag *models.MessageFlag) (int64, error) {
	var cnt int64
	err := s.Transaction(func(tx *Service) error {
		if err := tx.DB.Create(flag).Error; err != nil {
			return err
		}
		return tx.DB.Model(&models.MessageFlag{}).
			Where("message_id = ?", flag.MessageID).
			Count(&cnt).Error
	})
	return cnt, err
}

// ForceDeleteMessage removes a message that crossed the flag threshold,
// records the deletion against its author and returns the author's total
// force-deletion count. All in one transaction.
func (s *Service) ForceDeleteMessage(msg *models.ChatMessage) (int64, error) {
	if msg.AuthorID == nil {
		return 0, errors.New("system messages cannot be force-deleted")
	}
	var total int64
	err := s.Transaction(func(tx *Service) error {
		if err := tx.DB.Where("message_id = ?", msg.ID).
			Delete(&models.MessageFlag{}).Error; err != nil {
			return err
		}
		if err := tx.DB.Where("id = ?", msg.ID).
			Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		del := &models.ForceDeletion{
			AuthorID:  *msg.AuthorID,
			MessageID: msg.ID,
			CreatedAt: time.Now(),
		}
		if err := tx.DB.Create(del).Error; err != nil {
			return err
		}
		return tx.DB.Model(&models.ForceDeletion{}).
			Where("author_id = ?", *msg.AuthorID).
			Count(&total).Error
	})
	return total, err
}
