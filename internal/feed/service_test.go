package feed_test

import (
	"fmt"
	"testing"
	"time"

	"socialite/backend/internal/cards"
	"socialite/backend/internal/feed"
	"socialite/backend/internal/models"
	"socialite/backend/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*feed.Service, *storage.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	st := storage.NewService(db, rdb)
	require.NoError(t, st.AutoMigrate())

	cardSvc := cards.NewService(st, nil, zap.NewNop())
	return feed.NewService(st, cardSvc, nil, zap.NewNop()), st
}

func createUser(t *testing.T, st *storage.Service, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Status: models.UserStatusActive, PhotoURL: "photo.jpg"}
	require.NoError(t, st.CreateUser(user))
	return user
}

func follow(t *testing.T, st *storage.Service, followerID, followedID, status string) {
	t.Helper()
	require.NoError(t, st.CreateFollow(&models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		Status:     status,
	}))
}

func TestAddPost(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "fp_author")
	mentioned := createUser(t, st, "fp_mentioned")

	post, err := svc.AddPost(author.ID, "shoutout to @fp_mentioned")
	require.NoError(t, err)
	assert.Equal(t, []string{mentioned.ID}, post.TaggedUserIDs)

	// The mention produced a card.
	card, err := st.GetMentionCard(mentioned.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, card)

	_, err = svc.AddPost(author.ID, "")
	assert.ErrorIs(t, err, feed.ErrEmptyText)

	require.NoError(t, st.SetUserStatus(author.ID, models.UserStatusDisabled))
	_, err = svc.AddPost(author.ID, "from beyond")
	assert.ErrorIs(t, err, feed.ErrNotActive)
}

// TestFeed verifies the read path: own posts plus posts from FOLLOWING
// targets, newest first; REQUESTED edges, archived and deleted posts stay
// out.
func TestFeed(t *testing.T) {
	svc, st := newTestService(t)
	viewer := createUser(t, st, "fd_viewer")
	followed := createUser(t, st, "fd_followed")
	requested := createUser(t, st, "fd_requested")
	stranger := createUser(t, st, "fd_stranger")

	follow(t, st, viewer.ID, followed.ID, models.FollowStatusFollowing)
	follow(t, st, viewer.ID, requested.ID, models.FollowStatusRequested)

	base := time.Now().Add(-time.Hour)
	seed := func(authorID, text string, offset time.Duration) *models.Post {
		post := &models.Post{AuthorID: authorID, Text: text, CreatedAt: base.Add(offset)}
		require.NoError(t, st.SavePost(post))
		return post
	}
	own := seed(viewer.ID, "mine", 3*time.Minute)
	fromFollowed := seed(followed.ID, "followed says", 2*time.Minute)
	seed(requested.ID, "pending says", 1*time.Minute)
	seed(stranger.ID, "stranger says", 4*time.Minute)
	archived := seed(followed.ID, "archived", 5*time.Minute)
	archived.Archived = true
	require.NoError(t, st.SavePost(archived))

	posts, err := svc.Feed(viewer.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, own.ID, posts[0].ID, "newest first")
	assert.Equal(t, fromFollowed.ID, posts[1].ID)
}

// TestFeed_ReadYourWrites verifies a follow transition is visible on the very
// next read: no materialized inbox lag.
func TestFeed_ReadYourWrites(t *testing.T) {
	svc, st := newTestService(t)
	viewer := createUser(t, st, "ryw_viewer")
	author := createUser(t, st, "ryw_author")

	_, err := svc.AddPost(author.ID, "already published")
	require.NoError(t, err)

	posts, err := svc.Feed(viewer.ID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)

	follow(t, st, viewer.ID, author.ID, models.FollowStatusFollowing)

	posts, err = svc.Feed(viewer.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1, "existing posts appear immediately after following")
}

func TestEditPost(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "ep_author")
	other := createUser(t, st, "ep_other")
	mentioned := createUser(t, st, "ep_mentioned")

	post, err := svc.AddPost(author.ID, "hello @ep_mentioned")
	require.NoError(t, err)

	_, err = svc.EditPost(other.ID, post.ID, "not yours")
	assert.ErrorIs(t, err, feed.ErrNotAuthor)

	// The edit drops the mention; the card follows.
	edited, err := svc.EditPost(author.ID, post.ID, "hello nobody")
	require.NoError(t, err)
	assert.Empty(t, edited.TaggedUserIDs)

	card, err := st.GetMentionCard(mentioned.ID, post.ID)
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestDeletePost(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "dp_author")
	mentioned := createUser(t, st, "dp_mentioned")

	post, err := svc.AddPost(author.ID, "bye @dp_mentioned")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(author.ID, post.ID))

	_, err = st.GetPost(post.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	card, err := st.GetMentionCard(mentioned.ID, post.ID)
	require.NoError(t, err)
	assert.Nil(t, card, "mention cards go away with the post")

	assert.ErrorIs(t, svc.DeletePost(author.ID, post.ID), storage.ErrNotFound)
}

func TestSetArchived(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "ar_author")

	post, err := svc.AddPost(author.ID, "seasonal")
	require.NoError(t, err)

	require.NoError(t, svc.SetArchived(author.ID, post.ID, true))
	posts, err := svc.Feed(author.ID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)

	require.NoError(t, svc.SetArchived(author.ID, post.ID, false))
	posts, err = svc.Feed(author.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestReportPostViews_DismissesMentionCards(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "rv_author")
	viewer := createUser(t, st, "rv_viewer")

	post, err := svc.AddPost(author.ID, "look @rv_viewer")
	require.NoError(t, err)

	require.NoError(t, svc.ReportPostViews(viewer.ID, []string{post.ID}))

	card, err := st.GetMentionCard(viewer.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.True(t, card.Dismissed)

	seen, err := st.HasViewedPost(post.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, seen)
}
