package storage

import (
	"errors"
	"time"

	"socialite/backend/internal/models"

	"gorm.io/gorm"
)

// CreateChatWithMembers writes a chat, its membership rows and the initial
// message sequence in one transaction.
func (s *Service) CreateChatWithMembers(chat *models.Chat, memberIDs []string, messages []*models.ChatMessage) error {
	return s.Transaction(func(tx *Service) error {
		if err := tx.DB.Create(chat).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, id := range memberIDs {
			m := &models.ChatMembership{ChatID: chat.ID, UserID: id, JoinedAt: now}
			if err := tx.DB.Create(m).Error; err != nil {
				return err
			}
		}
		for _, msg := range messages {
			msg.ChatID = chat.ID
			if err := tx.DB.Create(msg).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetChat fetches a chat by id regardless of suppression; callers apply
// visibility.
func (s *Service) GetChat(chatID string) (*models.Chat, error) {
	var chat models.Chat
	err := s.DB.First(&chat, "id = ?", chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetDirectChatByPair fetches the live (non-suppressed) direct chat for an
// unordered user pair, nil when none exists.
func (s *Service) GetDirectChatByPair(a, b string) (*models.Chat, error) {
	key := models.DirectPairKey(a, b)
	var chat models.Chat
	err := s.DB.First(&chat, "pair_key = ? AND suppressed = ?", key, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// SuppressChat hides a direct chat from both members. The pair key is
// cleared so the pair can open a new direct chat after unblocking; the
// suppression itself is never undone.
func (s *Service) SuppressChat(chatID string) error {
	return s.DB.Model(&models.Chat{}).Where("id = ?", chatID).
		Updates(map[string]interface{}{"suppressed": true, "pair_key": nil}).Error
}

// SetChatName updates the chat name and appends the system message in one
// transaction.
func (s *Service) SetChatName(chatID string, name *string, sysMsg *models.ChatMessage) error {
	return s.Transaction(func(tx *Service) error {
		if err := tx.DB.Model(&models.Chat{}).Where("id = ?", chatID).
			Update("name", name).Error; err != nil {
			return err
		}
		return tx.DB.Create(sysMsg).Error
	})
}

// IsMember reports whether the user has a membership row in the chat.
func (s *Service) IsMember(chatID, userID string) (bool, error) {
	var cnt int64
	err := s.DB.Model(&models.ChatMembership{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

// CountMembers returns the chat's membership size.
func (s *Service) CountMembers(chatID string) (int64, error) {
	var cnt int64
	err := s.DB.Model(&models.ChatMembership{}).
		Where("chat_id = ?", chatID).
		Count(&cnt).Error
	return cnt, err
}

// ListMemberIDs returns the chat's member ids ordered by join time.
func (s *Service) ListMemberIDs(chatID string) ([]string, error) {
	var rows []models.ChatMembership
	err := s.DB.Where("chat_id = ?", chatID).Order("joined_at").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.UserID
	}
	return ids, nil
}

// AddMembers inserts membership rows and the "added" system message in one
// transaction. sysMsg may be nil when no one was actually added.
func (s *Service) AddMembers(chatID string, userIDs []string, sysMsg *models.ChatMessage) error {
	return s.Transaction(func(tx *Service) error {
		now := time.Now()
		for _, id := range userIDs {
			m := &models.ChatMembership{ChatID: chatID, UserID: id, JoinedAt: now}
			if err := tx.DB.Create(m).Error; err != nil {
				return err
			}
		}
		if sysMsg != nil {
			return tx.DB.Create(sysMsg).Error
		}
		return nil
	})
}

// RemoveMember deletes the membership row and appends the "left" system
// message in one transaction.
func (s *Service) RemoveMember(chatID, userID string, sysMsg *models.ChatMessage) error {
	return s.Transaction(func(tx *Service) error {
		err := tx.DB.Where("chat_id = ? AND user_id = ?", chatID, userID).
			Delete(&models.ChatMembership{}).Error
		if err != nil {
			return err
		}
		return tx.DB.Create(sysMsg).Error
	})
}

// ListChatsForUser returns the user's visible (non-suppressed) chats, newest
// first.
func (s *Service) ListChatsForUser(userID string, limit, offset int) ([]*models.Chat, error) {
	var chats []*models.Chat
	err := s.DB.
		Joins("JOIN chat_memberships ON chat_memberships.chat_id = chats.id").
		Where("chat_memberships.user_id = ? AND chats.suppressed = ?", userID, false).
		Order("chats.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&chats).Error
	return chats, err
}

// CountChatsForUser counts the user's visible chats.
func (s *Service) CountChatsForUser(userID string) (int64, error) {
	var cnt int64
	err := s.DB.Model(&models.Chat{}).
		Joins("JOIN chat_memberships ON chat_memberships.chat_id = chats.id").
		Where("chat_memberships.user_id = ? AND chats.suppressed = ?", userID, false).
		Count(&cnt).Error
	return cnt, err
}
