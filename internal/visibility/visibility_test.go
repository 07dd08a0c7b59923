package visibility_test

import (
	"testing"

	"socialite/backend/internal/models"
	"socialite/backend/internal/visibility"

	"github.com/stretchr/testify/assert"
)

func snap() visibility.Snapshot {
	return visibility.Snapshot{
		ViewerID:      "viewer",
		TargetID:      "target",
		ViewerStatus:  models.UserStatusActive,
		TargetStatus:  models.UserStatusActive,
		TargetPrivacy: models.PrivacyPublic,
	}
}

func TestBlockedStatus(t *testing.T) {
	s := snap()
	assert.Equal(t, visibility.NotBlocking, s.BlockedStatus())

	s.ViewerBlocksTarget = true
	assert.Equal(t, visibility.Blocking, s.BlockedStatus())

	// BLOCKING wins when both directions exist.
	s.TargetBlocksViewer = true
	assert.Equal(t, visibility.Blocking, s.BlockedStatus())

	s.ViewerBlocksTarget = false
	assert.Equal(t, visibility.Blocked, s.BlockedStatus())
}

func TestCanViewProfile(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*visibility.Snapshot)
		want   bool
	}{
		{"active target", func(s *visibility.Snapshot) {}, true},
		{"anonymous target still resolves", func(s *visibility.Snapshot) {
			s.TargetStatus = models.UserStatusAnonymous
		}, true},
		{"disabled target hidden", func(s *visibility.Snapshot) {
			s.TargetStatus = models.UserStatusDisabled
		}, false},
		{"deleting target hidden", func(s *visibility.Snapshot) {
			s.TargetStatus = models.UserStatusDeleting
		}, false},
		{"self sees self even when disabled", func(s *visibility.Snapshot) {
			s.ViewerID = s.TargetID
			s.TargetStatus = models.UserStatusDisabled
		}, true},
		{"blocked viewer still sees base profile", func(s *visibility.Snapshot) {
			s.TargetBlocksViewer = true
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snap()
			tt.mutate(&s)
			assert.Equal(t, tt.want, s.CanViewProfile())
		})
	}
}

func TestCanViewPosts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*visibility.Snapshot)
		want   bool
	}{
		{"public target", func(s *visibility.Snapshot) {}, true},
		{"private target without follow", func(s *visibility.Snapshot) {
			s.TargetPrivacy = models.PrivacyPrivate
		}, false},
		{"private target with pending request", func(s *visibility.Snapshot) {
			s.TargetPrivacy = models.PrivacyPrivate
			s.FollowStatus = models.FollowStatusRequested
		}, false},
		{"private target while following", func(s *visibility.Snapshot) {
			s.TargetPrivacy = models.PrivacyPrivate
			s.FollowStatus = models.FollowStatusFollowing
		}, true},
		{"viewer blocks target", func(s *visibility.Snapshot) {
			s.ViewerBlocksTarget = true
		}, false},
		{"target blocks viewer", func(s *visibility.Snapshot) {
			s.TargetBlocksViewer = true
		}, false},
		{"self always", func(s *visibility.Snapshot) {
			s.ViewerID = s.TargetID
			s.TargetPrivacy = models.PrivacyPrivate
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snap()
			tt.mutate(&s)
			assert.Equal(t, tt.want, s.CanViewPosts())
		})
	}
}

// TestCanSeeChatMember covers the asymmetric member-list rule: the blocker
// stops seeing the blocked user while the blocked user still sees the
// blocker.
func TestCanSeeChatMember(t *testing.T) {
	s := snap()
	assert.True(t, s.CanSeeChatMember())

	s.ViewerBlocksTarget = true
	assert.False(t, s.CanSeeChatMember(), "blocker must not see the blocked member")

	s.ViewerBlocksTarget = false
	s.TargetBlocksViewer = true
	assert.True(t, s.CanSeeChatMember(), "blocked member still sees the blocker")
}

func TestCanResolveAuthor(t *testing.T) {
	s := snap()
	assert.True(t, s.CanResolveAuthor())

	s.TargetBlocksViewer = true
	assert.False(t, s.CanResolveAuthor())

	s.TargetBlocksViewer = false
	s.ViewerBlocksTarget = true
	assert.False(t, s.CanResolveAuthor())

	s.ViewerID = s.TargetID
	assert.True(t, s.CanResolveAuthor(), "own messages always resolve")
}

func TestCanComment(t *testing.T) {
	s := snap()
	assert.True(t, s.CanComment())

	s.ViewerBlocksTarget = true
	assert.False(t, s.CanComment())

	s = snap()
	s.TargetPrivacy = models.PrivacyPrivate
	assert.False(t, s.CanComment(), "comment requires post visibility")
}
