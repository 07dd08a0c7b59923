package storage

import (
	"errors"
	"time"

	"socialite/backend/internal/models"

	"gorm.io/gorm"
)

// SavePost inserts or updates a post.
func (s *Service) SavePost(post *models.Post) error {
	return s.DB.Save(post).Error
}

// GetPost fetches a live (non-deleted) post by id.
func (s *Service) GetPost(postID string) (*models.Post, error) {
	var post models.Post
	err := s.DB.First(&post, "id = ? AND deleted_at IS NULL", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SoftDeletePost marks a post deleted without dropping the row.
func (s *Service) SoftDeletePost(postID string) error {
	now := time.Now()
	return s.DB.Model(&models.Post{}).Where("id = ?", postID).
		Update("deleted_at", &now).Error
}

// ListPostsByAuthors returns live, non-archived posts by the given authors,
// newest first. Feeds call this with the viewer plus everyone they follow.
func (s *Service) ListPostsByAuthors(authorIDs []string, limit, offset int) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	err := s.DB.
		Where("author_id IN ? AND archived = ? AND deleted_at IS NULL", authorIDs, false).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

// CreatePostView records a view; duplicate views are a no-op.
func (s *Service) CreatePostView(view *models.PostView) error {
	existing, err := s.HasViewedPost(view.PostID, view.UserID)
	if err != nil {
		return err
	}
	if existing {
		return nil
	}
	return s.DB.Create(view).Error
}

// HasViewedPost reports whether the user already viewed the post.
func (s *Service) HasViewedPost(postID, userID string) (bool, error) {
	var cnt int64
	err := s.DB.Model(&models.PostView{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}
