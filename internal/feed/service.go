// Package feed owns the post lifecycle and the follow-driven feed read
// path. The feed is computed at read time from the viewer's FOLLOWING set,
// which keeps it read-your-writes consistent with follow transitions.
package feed

import (
	"errors"
	"fmt"
	"time"

	"socialite/backend/internal/cards"
	"socialite/backend/internal/models"
	"socialite/backend/internal/notifyhub"
	"socialite/backend/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrNotActive = errors.New("user is not active")
	ErrNotAuthor = errors.New("only the author may modify a post")
	ErrEmptyText = errors.New("post text must not be empty")
)

// Service is the post and feed engine.
type Service struct {
	Storage *storage.Service
	Cards   *cards.Service
	Events  *notifyhub.Publisher
	Logger  *zap.Logger
}

func NewService(s *storage.Service, cardSvc *cards.Service, events *notifyhub.Publisher, logger *zap.Logger) *Service {
	return &Service{Storage: s, Cards: cardSvc, Events: events, Logger: logger}
}

// AddPost publishes a post, resolves its @mentions and triggers mention
// cards plus a feed event for every follower.
func (s *Service) AddPost(authorID, text string) (*models.Post, error) {
	author, err := s.Storage.GetUserByID(authorID)
	if err != nil {
		return nil, err
	}
	if !author.IsActive() {
		return nil, ErrNotActive
	}
	if text == "" {
		return nil, ErrEmptyText
	}

	post := &models.Post{
		AuthorID:      authorID,
		Text:          text,
		TaggedUserIDs: s.taggedUserIDs(text),
		CreatedAt:     time.Now(),
	}
	if err := s.Storage.SavePost(post); err != nil {
		return nil, fmt.Errorf("add post: %w", err)
	}

	if err := s.Cards.SyncMentionCards(post, nil); err != nil {
		s.Logger.Warn("mention card sync failed", zap.String("postId", post.ID), zap.Error(err))
	}
	s.fanOutToFollowers(authorID, post.ID)
	return post, nil
}

// EditPost rewrites a post's text. Mention cards follow the tag changes.
func (s *Service) EditPost(requesterID, postID, text string) (*models.Post, error) {
	post, err := s.Storage.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != requesterID {
		return nil, ErrNotAuthor
	}
	if text == "" {
		return nil, ErrEmptyText
	}

	previousTags := post.TaggedUserIDs
	post.Text = text
	post.TaggedUserIDs = s.taggedUserIDs(text)
	if err := s.Storage.SavePost(post); err != nil {
		return nil, fmt.Errorf("edit post: %w", err)
	}

	if err := s.Cards.SyncMentionCards(post, previousTags); err != nil {
		s.Logger.Warn("mention card sync failed", zap.String("postId", post.ID), zap.Error(err))
	}
	s.fanOutToFollowers(post.AuthorID, post.ID)
	return post, nil
}

// DeletePost soft-deletes a post and removes all its mention cards.
func (s *Service) DeletePost(requesterID, postID string) error {
	post, err := s.Storage.GetPost(postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return ErrNotAuthor
	}
	if err := s.Storage.SoftDeletePost(postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if err := s.Cards.OnPostDeleted(postID); err != nil {
		s.Logger.Warn("mention card cleanup failed", zap.String("postId", postID), zap.Error(err))
	}
	s.fanOutToFollowers(post.AuthorID, postID)
	return nil
}

// SetArchived flips a post's archived state, which adds or removes it from
// follower feeds.
func (s *Service) SetArchived(requesterID, postID string, archived bool) error {
	post, err := s.Storage.GetPost(postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return ErrNotAuthor
	}
	post.Archived = archived
	if err := s.Storage.SavePost(post); err != nil {
		return fmt.Errorf("archive post: %w", err)
	}
	s.fanOutToFollowers(post.AuthorID, postID)
	return nil
}

// ReportPostViews records that a viewer saw the given posts and
// auto-dismisses the corresponding mention cards.
func (s *Service) ReportPostViews(viewerID string, postIDs []string) error {
	for _, postID := range postIDs {
		view := &models.PostView{PostID: postID, UserID: viewerID, ViewedAt: time.Now()}
		if err := s.Storage.CreatePostView(view); err != nil {
			return fmt.Errorf("record post view: %w", err)
		}
		if err := s.Cards.OnPostViewed(postID, viewerID); err != nil {
			s.Logger.Warn("card auto-dismiss failed", zap.String("postId", postID), zap.Error(err))
		}
	}
	return nil
}

// Feed returns the viewer's feed: their own posts plus non-archived posts
// from everyone they FOLLOW (REQUESTED edges do not count), newest first.
func (s *Service) Feed(viewerID string, limit, offset int) ([]*models.Post, error) {
	followed, err := s.Storage.ListFollowedIDs(viewerID, models.FollowStatusFollowing, 0, 0)
	if err != nil {
		return nil, err
	}
	authors := append(followed, viewerID)
	return s.Storage.ListPostsByAuthors(authors, limit, offset)
}

// fanOutToFollowers pushes a post-status event to the author's followers.
// Fire-and-forget: feeds are recomputed on read, the event only wakes up
// live subscribers.
func (s *Service) fanOutToFollowers(authorID, postID string) {
	followers, err := s.Storage.ListFollowerIDs(authorID, models.FollowStatusFollowing, 0, 0)
	if err != nil {
		s.Logger.Warn("follower fan-out skipped", zap.String("authorId", authorID), zap.Error(err))
		return
	}
	payload := []byte(fmt.Sprintf(`{"postId":%q}`, postID))
	s.Events.PublishAll(followers, models.NotificationPostStatus, payload)
}

func (s *Service) taggedUserIDs(text string) []string {
	var ids []string
	for _, username := range models.ParseMentions(text) {
		user, err := s.Storage.GetUserByUsername(username)
		if err != nil {
			continue
		}
		ids = append(ids, user.ID)
	}
	return ids
}
