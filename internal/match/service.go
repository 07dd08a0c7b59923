// Package match implements the dating edge state machine: POTENTIAL edges
// derived from mutual criteria, unilateral approve/reject transitions and
// the CONFIRMED state once both sides approve.
package match

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"socialite/backend/internal/models"
	"socialite/backend/internal/notifyhub"
	"socialite/backend/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrNotActive       = errors.New("user is not active")
	ErrDatingDisabled  = errors.New("dating is not enabled")
	ErrSelfTarget      = errors.New("cannot match with yourself")
	ErrBlocked         = errors.New("a block relationship forbids this match")
	ErrNotPotential    = errors.New("users do not satisfy each other's criteria")
	ErrAlreadyResolved = errors.New("match already in that state")
)

// Candidate is one entry of the potential-matches list.
type Candidate struct {
	User          *models.User `json:"user"`
	Status        string       `json:"status"`
	ApprovalCount int64        `json:"approvalCount"`
	updatedAt     time.Time
}

// Service is the dating match engine.
type Service struct {
	Storage *storage.Service
	Events  *notifyhub.Publisher
	Logger  *zap.Logger
}

func NewService(s *storage.Service, events *notifyhub.Publisher, logger *zap.Logger) *Service {
	return &Service{Storage: s, Events: events, Logger: logger}
}

// SetDatingStatus flips a user's dating participation.
func (s *Service) SetDatingStatus(userID, status string) error {
	if status != models.DatingEnabled && status != models.DatingDisabled {
		return fmt.Errorf("unknown dating status %q", status)
	}
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !user.IsActive() {
		return ErrNotActive
	}
	user.DatingStatus = status
	return s.Storage.SaveUser(user)
}

// PotentialMatches derives the ordered candidate list for a user: everyone
// with dating enabled who mutually satisfies the criteria, minus blocked
// pairs and candidates this user has rejected. Candidates sort by the number
// of approvals they have received (descending), then most recently updated
// edge, then id for stability.
func (s *Service) PotentialMatches(userID string, limit int) ([]Candidate, error) {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrNotActive
	}
	if user.DatingStatus != models.DatingEnabled {
		return nil, ErrDatingDisabled
	}

	others, err := s.Storage.ListDatingEnabledUsers(userID)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	var ids []string
	for _, other := range others {
		if !MutualMatch(user, other) {
			continue
		}
		blocked, err := s.Storage.BlockedEitherDirection(userID, other.ID)
		if err != nil {
			return nil, err
		}
		if blocked {
			continue
		}
		edge, err := s.Storage.GetMatch(userID, other.ID)
		if err != nil {
			return nil, err
		}
		status := models.MatchStatusPotential
		var updatedAt time.Time
		if edge != nil {
			if edge.Status == models.MatchStatusRejected {
				continue
			}
			status = edge.Status
			updatedAt = edge.UpdatedAt
		}
		candidates = append(candidates, Candidate{
			User:      other,
			Status:    status,
			updatedAt: updatedAt,
		})
		ids = append(ids, other.ID)
	}

	counts, err := s.Storage.ApprovalCounts(ids)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].ApprovalCount = counts[candidates[i].User.ID]
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].ApprovalCount != candidates[j].ApprovalCount {
			return candidates[i].ApprovalCount > candidates[j].ApprovalCount
		}
		if !candidates[i].updatedAt.Equal(candidates[j].updatedAt) {
			return candidates[i].updatedAt.After(candidates[j].updatedAt)
		}
		return candidates[i].User.ID < candidates[j].User.ID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// Approve records userID's approval of otherID. The edge moves to APPROVED;
// when the reverse edge is already APPROVED both become CONFIRMED.
func (s *Service) Approve(userID, otherID string) (*models.Match, error) {
	user, other, err := s.loadPair(userID, otherID)
	if err != nil {
		return nil, err
	}
	if !MutualMatch(user, other) {
		return nil, ErrNotPotential
	}

	edge, err := s.Storage.GetMatch(userID, otherID)
	if err != nil {
		return nil, err
	}
	if edge != nil && (edge.Status == models.MatchStatusApproved ||
		edge.Status == models.MatchStatusConfirmed ||
		edge.Status == models.MatchStatusRejected) {
		return nil, ErrAlreadyResolved
	}
	if edge == nil {
		edge = &models.Match{UserID: userID, OtherUserID: otherID}
	}
	edge.Status = models.MatchStatusApproved

	reverse, err := s.Storage.GetMatch(otherID, userID)
	if err != nil {
		return nil, err
	}
	confirmed := reverse != nil && reverse.Status == models.MatchStatusApproved

	err = s.Storage.Transaction(func(tx *storage.Service) error {
		if confirmed {
			edge.Status = models.MatchStatusConfirmed
			reverse.Status = models.MatchStatusConfirmed
			if err := tx.SaveMatch(reverse); err != nil {
				return err
			}
		}
		return tx.SaveMatch(edge)
	})
	if err != nil {
		return nil, fmt.Errorf("approve match: %w", err)
	}

	s.notifyMatchChange(userID, otherID, edge.Status)
	return edge, nil
}

// Reject records userID's rejection of otherID. Terminal for this
// direction; the other side keeps its independent state, except a CONFIRMED
// reverse edge drops back to APPROVED since confirmation no longer holds.
func (s *Service) Reject(userID, otherID string) (*models.Match, error) {
	if _, _, err := s.loadPair(userID, otherID); err != nil {
		return nil, err
	}

	edge, err := s.Storage.GetMatch(userID, otherID)
	if err != nil {
		return nil, err
	}
	if edge != nil && edge.Status == models.MatchStatusRejected {
		return nil, ErrAlreadyResolved
	}
	if edge == nil {
		edge = &models.Match{UserID: userID, OtherUserID: otherID}
	}
	edge.Status = models.MatchStatusRejected

	reverse, err := s.Storage.GetMatch(otherID, userID)
	if err != nil {
		return nil, err
	}

	err = s.Storage.Transaction(func(tx *storage.Service) error {
		if reverse != nil && reverse.Status == models.MatchStatusConfirmed {
			reverse.Status = models.MatchStatusApproved
			if err := tx.SaveMatch(reverse); err != nil {
				return err
			}
		}
		return tx.SaveMatch(edge)
	})
	if err != nil {
		return nil, fmt.Errorf("reject match: %w", err)
	}

	s.notifyMatchChange(userID, otherID, edge.Status)
	return edge, nil
}

// ConfirmedMatches lists the user's CONFIRMED edges, most recent first.
func (s *Service) ConfirmedMatches(userID string) ([]*models.Match, error) {
	return s.Storage.ListMatchesForUser(userID, []string{models.MatchStatusConfirmed})
}

func (s *Service) loadPair(userID, otherID string) (*models.User, *models.User, error) {
	if userID == otherID {
		return nil, nil, ErrSelfTarget
	}
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive() {
		return nil, nil, ErrNotActive
	}
	if user.DatingStatus != models.DatingEnabled {
		return nil, nil, ErrDatingDisabled
	}
	other, err := s.Storage.GetUserByID(otherID)
	if err != nil {
		return nil, nil, err
	}
	blocked, err := s.Storage.BlockedEitherDirection(userID, otherID)
	if err != nil {
		return nil, nil, err
	}
	if blocked {
		return nil, nil, ErrBlocked
	}
	return user, other, nil
}

func (s *Service) notifyMatchChange(userID, otherID, status string) {
	payload := []byte(fmt.Sprintf(`{"otherUserId":%q,"status":%q}`, otherID, status))
	s.Events.Publish(models.Notification{UserID: userID, Type: models.NotificationMatchChanged, Payload: payload})
	reversePayload := []byte(fmt.Sprintf(`{"otherUserId":%q,"status":%q}`, userID, status))
	s.Events.Publish(models.Notification{UserID: otherID, Type: models.NotificationMatchChanged, Payload: reversePayload})
}
