package storage

import (
	"errors"

	"socialite/backend/internal/models"

	"gorm.io/gorm"
)

// CreateBlock inserts a directed block edge.
func (s *Service) CreateBlock(block *models.Block) error {
	return s.DB.Create(block).Error
}

// DeleteBlock removes the directed edge blocker->blocked. Reports how many
// rows were deleted so the caller can distinguish "was not blocking".
func (s *Service) DeleteBlock(blockerID, blockedID string) (int64, error) {
	res := s.DB.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	return res.RowsAffected, res.Error
}

// BlockExists reports whether the directed edge blocker->blocked exists.
func (s *Service) BlockExists(blockerID, blockedID string) (bool, error) {
	var cnt int64
	err := s.DB.Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&cnt).Error
	return cnt > 0, err
}

// BlockedEitherDirection reports whether a block exists between a and b in
// either direction. The two lookups stay separate because several predicates
// care about direction.
func (s *Service) BlockedEitherDirection(a, b string) (bool, error) {
	out, err := s.BlockExists(a, b)
	if err != nil || out {
		return out, err
	}
	return s.BlockExists(b, a)
}

// ListBlockedUserIDs returns the ids the given user has blocked, newest
// first.
func (s *Service) ListBlockedUserIDs(blockerID string, limit, offset int) ([]string, error) {
	var rows []models.Block
	err := s.DB.Where("blocker_id = ?", blockerID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.BlockedID
	}
	return ids, nil
}

// CreateFollow inserts a directed follow edge.
func (s *Service) CreateFollow(follow *models.Follow) error {
	return s.DB.Create(follow).Error
}

// GetFollow fetches the edge follower->followed, nil when absent.
func (s *Service) GetFollow(followerID, followedID string) (*models.Follow, error) {
	var f models.Follow
	err := s.DB.First(&f, "follower_id = ? AND followed_id = ?", followerID, followedID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// SetFollowStatus updates the status of an existing follow edge.
func (s *Service) SetFollowStatus(followID, status string) error {
	return s.DB.Model(&models.Follow{}).Where("id = ?", followID).
		Update("status", status).Error
}

// DeleteFollow removes the edge follower->followed.
func (s *Service) DeleteFollow(followerID, followedID string) (int64, error) {
	res := s.DB.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	return res.RowsAffected, res.Error
}

// ListFollowerIDs returns follower ids with the given edge status. A zero
// limit means no bound.
func (s *Service) ListFollowerIDs(followedID, status string, limit, offset int) ([]string, error) {
	q := s.DB.Where("followed_id = ? AND status = ?", followedID, status).
		Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Follow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.FollowerID
	}
	return ids, nil
}

// ListFollowedIDs returns the ids the user follows with the given status.
// A zero limit means no bound (feed recomputation wants the full set).
func (s *Service) ListFollowedIDs(followerID, status string, limit, offset int) ([]string, error) {
	q := s.DB.Where("follower_id = ? AND status = ?", followerID, status).
		Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Follow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.FollowedID
	}
	return ids, nil
}
