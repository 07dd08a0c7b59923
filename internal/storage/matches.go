package storage

import (
	"errors"

	"socialite/backend/internal/models"

	"gorm.io/gorm"
)

// GetMatch fetches the directed match edge user->other, nil when absent.
func (s *Service) GetMatch(userID, otherUserID string) (*models.Match, error) {
	var m models.Match
	err := s.DB.First(&m, "user_id = ? AND other_user_id = ?", userID, otherUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMatch inserts or updates a directed match edge.
func (s *Service) SaveMatch(match *models.Match) error {
	return s.DB.Save(match).Error
}

// DeleteMatchesBetween removes both directions of a match edge.
func (s *Service) DeleteMatchesBetween(a, b string) error {
	return s.DB.
		Where("(user_id = ? AND other_user_id = ?) OR (user_id = ? AND other_user_id = ?)",
			a, b, b, a).
		Delete(&models.Match{}).Error
}

// ListMatchesForUser returns the user's outgoing match edges with any of the
// given statuses, most recently updated first.
func (s *Service) ListMatchesForUser(userID string, statuses []string) ([]*models.Match, error) {
	var rows []*models.Match
	err := s.DB.Where("user_id = ? AND status IN ?", userID, statuses).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

// ApprovalCounts returns, for each candidate id, how many other users have
// an APPROVED or CONFIRMED edge pointed at the candidate.
func (s *Service) ApprovalCounts(candidateIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return counts, nil
	}
	type row struct {
		OtherUserID string
		N           int64
	}
	var rows []row
	err := s.DB.Model(&models.Match{}).
		Select("other_user_id, COUNT(*) AS n").
		Where("other_user_id IN ? AND status IN ?", candidateIDs,
			[]string{models.MatchStatusApproved, models.MatchStatusConfirmed}).
		Group("other_user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.OtherUserID] = r.N
	}
	return counts, nil
}
