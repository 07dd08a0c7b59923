package cards_test

import (
	"fmt"
	"testing"

	"socialite/backend/internal/cards"
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

func newTestService(t *testing.T) (*cards.Service, *storage.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	st := storage.NewService(db, rdb)
	require.NoError(t, st.AutoMigrate())
	return cards.NewService(st, nil, zap.NewNop()), st
}

func createUser(t *testing.T, st *storage.Service, username, photoURL string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Status: models.UserStatusActive, PhotoURL: photoURL}
	require.NoError(t, st.CreateUser(user))
	return user
}

func createPost(t *testing.T, st *storage.Service, authorID string, tagged ...string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Text: "a post", TaggedUserIDs: tagged}
	require.NoError(t, st.SavePost(post))
	return post
}

func TestSyncMentionCards_CreatesForTaggedUsers(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "mc_author", "photo.jpg")
	tagged := createUser(t, st, "mc_tagged", "photo.jpg")

	post := createPost(t, st, author.ID, tagged.ID)
	require.NoError(t, svc.SyncMentionCards(post, nil))

	card, err := st.GetMentionCard(tagged.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, models.CardKindPostMention, card.Kind)
	assert.Equal(t, "@mc_author tagged you in a post", card.Title)
	assert.Equal(t, "/posts/"+post.ID, card.Action)
}

func TestSyncMentionCards_SkipsSelfTagAndViewedPosts(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "st_author", "photo.jpg")
	viewer := createUser(t, st, "st_viewer", "photo.jpg")

	post := createPost(t, st, author.ID, author.ID, viewer.ID)
	require.NoError(t, st.CreatePostView(&models.PostView{PostID: post.ID, UserID: viewer.ID}))

	require.NoError(t, svc.SyncMentionCards(post, nil))

	card, err := st.GetMentionCard(author.ID, post.ID)
	require.NoError(t, err)
	assert.Nil(t, card, "no card for tagging yourself")

	card, err = st.GetMentionCard(viewer.ID, post.ID)
	require.NoError(t, err)
	assert.Nil(t, card, "no card once the post was already seen")
}

// TestSyncMentionCards_EditRemovesAndTombstonesHold covers the edit flow: a
// removed tag deletes the live card, while a dismissed card survives the
// removal and is not resurrected when the tag comes back.
func TestSyncMentionCards_EditRemovesAndTombstonesHold(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "ed_author", "photo.jpg")
	dropped := createUser(t, st, "ed_dropped", "photo.jpg")
	dismisser := createUser(t, st, "ed_dismisser", "photo.jpg")

	post := createPost(t, st, author.ID, dropped.ID, dismisser.ID)
	require.NoError(t, svc.SyncMentionCards(post, nil))

	card, err := st.GetMentionCard(dismisser.ID, post.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCard(dismisser.ID, card.ID))

	// Edit drops both tags.
	previous := post.TaggedUserIDs
	post.TaggedUserIDs = nil
	require.NoError(t, svc.SyncMentionCards(post, previous))

	card, err = st.GetMentionCard(dropped.ID, post.ID)
	require.NoError(t, err)
	assert.Nil(t, card, "live card goes away with the tag")

	card, err = st.GetMentionCard(dismisser.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, card, "tombstone stays")
	assert.True(t, card.Dismissed)

	// Edit re-adds the dismissed user's tag: the tombstone blocks a new card.
	post.TaggedUserIDs = []string{dismisser.ID}
	require.NoError(t, svc.SyncMentionCards(post, nil))

	live, err := st.ListCards(dismisser.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, live, "dismissed card must not be resurrected")
}

func TestOnPostViewed_AutoDismisses(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "vw_author", "photo.jpg")
	tagged := createUser(t, st, "vw_tagged", "photo.jpg")

	post := createPost(t, st, author.ID, tagged.ID)
	require.NoError(t, svc.SyncMentionCards(post, nil))
	require.NoError(t, svc.OnPostViewed(post.ID, tagged.ID))

	card, err := st.GetMentionCard(tagged.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.True(t, card.Dismissed)

	// Viewing again is a no-op.
	require.NoError(t, svc.OnPostViewed(post.ID, tagged.ID))
}

func TestOnPostDeleted_RemovesTombstonesToo(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "del_author", "photo.jpg")
	tagged := createUser(t, st, "del_tagged", "photo.jpg")

	post := createPost(t, st, author.ID, tagged.ID)
	require.NoError(t, svc.SyncMentionCards(post, nil))
	require.NoError(t, svc.OnPostViewed(post.ID, tagged.ID))

	require.NoError(t, svc.OnPostDeleted(post.ID))

	card, err := st.GetMentionCard(tagged.ID, post.ID)
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestDeleteCard_Guards(t *testing.T) {
	svc, st := newTestService(t)
	author := createUser(t, st, "dc_author", "photo.jpg")
	owner := createUser(t, st, "dc_owner", "photo.jpg")
	other := createUser(t, st, "dc_other", "photo.jpg")

	post := createPost(t, st, author.ID, owner.ID)
	require.NoError(t, svc.SyncMentionCards(post, nil))

	card, err := st.GetMentionCard(owner.ID, post.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteCard(other.ID, card.ID), cards.ErrNotOwner)
	require.NoError(t, svc.DeleteCard(owner.ID, card.ID))
	assert.ErrorIs(t, svc.DeleteCard(owner.ID, card.ID), storage.ErrNotFound)
}

// TestListCards_ProfilePhotoPrompt verifies the synthesized prompt: present
// for users without a photo, absent once a photo exists, and counted by
// CardCount.
func TestListCards_ProfilePhotoPrompt(t *testing.T) {
	svc, st := newTestService(t)
	noPhoto := createUser(t, st, "np_user", "")
	withPhoto := createUser(t, st, "wp_user", "photo.jpg")

	list, err := svc.ListCards(noPhoto.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.CardKindProfilePhoto, list[0].Kind)
	assert.Equal(t, "profile-photo:"+noPhoto.ID, list[0].ID)

	count, err := svc.CardCount(noPhoto.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	list, err = svc.ListCards(withPhoto.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err = svc.CardCount(withPhoto.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}
