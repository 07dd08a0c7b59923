package storage

import (
	"errors"

	"socialite/backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// CreateUser inserts a new user row.
func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

// SaveUser persists all fields of an existing user.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// GetUserByID fetches a user by primary key.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername fetches a user by unique username.
func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs fetches the users that exist among ids, keyed by id.
func (s *Service) GetUsersByIDs(ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var rows []*models.User
	if err := s.DB.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

// SetUserStatus updates only the status column.
func (s *Service) SetUserStatus(userID, status string) error {
	return s.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("status", status).Error
}

// ListDatingEnabledUsers returns all active users with dating enabled,
// excluding the given user.
func (s *Service) ListDatingEnabledUsers(excludeUserID string) ([]*models.User, error) {
	var rows []*models.User
	err := s.DB.
		Where("dating_status = ? AND status = ? AND id <> ?",
			models.DatingEnabled, models.UserStatusActive, excludeUserID).
		Find(&rows).Error
	return rows, err
}
