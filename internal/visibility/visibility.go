// Package visibility computes what a viewer may see or do from a snapshot of
// relationship state. Every predicate is pure; loading the snapshot is the
// caller's job.
package visibility

import "socialite/backend/internal/models"

// Blocked status markers as seen from the viewer's side of an edge.
const (
	Blocking    = "BLOCKING"
	Blocked     = "BLOCKED"
	NotBlocking = "NOT_BLOCKING"
)

// Snapshot captures the relationship state between a viewer and a target at
// one point in time. The two block directions stay separate because several
// rules are asymmetric.
type Snapshot struct {
	ViewerID string
	TargetID string

	ViewerStatus string
	TargetStatus string

	TargetPrivacy string

	ViewerBlocksTarget bool
	TargetBlocksViewer bool

	// FollowStatus is the viewer->target follow edge status, empty when no
	// edge exists.
	FollowStatus string
}

// IsSelf reports whether the viewer is looking at themselves. Self always
// bypasses privacy.
func (s Snapshot) IsSelf() bool { return s.ViewerID == s.TargetID }

// BlockedStatus returns the block marker from the viewer's perspective.
func (s Snapshot) BlockedStatus() string {
	switch {
	case s.ViewerBlocksTarget:
		return Blocking
	case s.TargetBlocksViewer:
		return Blocked
	default:
		return NotBlocking
	}
}

// CanViewProfile reports whether the viewer may resolve the target's profile
// at all. A user blocked by the target does not resolve the target's
// restricted fields but the base profile stays visible; full suppression
// applies only to disabled and deleting accounts.
func (s Snapshot) CanViewProfile() bool {
	if s.IsSelf() {
		return true
	}
	return s.TargetStatus == models.UserStatusActive ||
		s.TargetStatus == models.UserStatusAnonymous
}

// CanViewPosts reports whether the viewer may see the target's posts and
// comments. PRIVATE targets require a FOLLOWING edge; any block in either
// direction hides content.
func (s Snapshot) CanViewPosts() bool {
	if s.IsSelf() {
		return true
	}
	if s.ViewerBlocksTarget || s.TargetBlocksViewer {
		return false
	}
	if s.TargetPrivacy == models.PrivacyPrivate {
		return s.FollowStatus == models.FollowStatusFollowing
	}
	return true
}

// CanComment reports whether the viewer may comment on the target's content.
// On top of post visibility, any block in either direction forbids it.
func (s Snapshot) CanComment() bool {
	if s.IsSelf() {
		return true
	}
	if s.ViewerBlocksTarget || s.TargetBlocksViewer {
		return false
	}
	return s.CanViewPosts()
}

// CanSeeChatMember reports whether the viewer sees the target inside a
// shared group chat's member list. Suppression is asymmetric: the blocker
// stops seeing the blocked user; the blocked user still sees the blocker.
func (s Snapshot) CanSeeChatMember() bool {
	if s.IsSelf() {
		return true
	}
	return !s.ViewerBlocksTarget
}

// CanResolveAuthor reports whether a message author's profile resolves for
// the viewer. When it does not, the message keeps its author id but the
// embedded profile is nil.
func (s Snapshot) CanResolveAuthor() bool {
	if s.IsSelf() {
		return true
	}
	return !s.ViewerBlocksTarget && !s.TargetBlocksViewer
}
