package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialite/backend/internal/cards"
	"socialite/backend/internal/chat"
	"socialite/backend/internal/feed"
	"socialite/backend/internal/models"
	"socialite/backend/internal/relationship"
	"socialite/backend/internal/storage"
	"socialite/backend/internal/users"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSelfHandler(t *testing.T) (*Handler, *storage.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	st := storage.NewService(db, rdb)
	require.NoError(t, st.AutoMigrate())

	relSvc := relationship.NewService(st, nil, zap.NewNop())
	chatSvc := chat.NewService(st, nil, zap.NewNop())
	cardSvc := cards.NewService(st, nil, zap.NewNop())
	feedSvc := feed.NewService(st, cardSvc, nil, zap.NewNop())
	userSvc := users.NewService(st, relSvc, nil, zap.NewNop())

	return &Handler{
		Storage:      st,
		Users:        userSvc,
		Relationship: relSvc,
		Chat:         chatSvc,
		Feed:         feedSvc,
		Cards:        cardSvc,
		JWTSecret:    []byte("test-secret"),
		Logger:       zap.NewNop(),
	}, st
}

// seedSelf creates a user with one mention card and one feed post so the
// aggregate fields have something to resolve.
func seedSelf(t *testing.T, h *Handler) *models.User {
	t.Helper()
	self, err := h.Users.Create("self_user")
	require.NoError(t, err)
	author, err := h.Users.Create("self_author")
	require.NoError(t, err)

	// A photo keeps the synthesized photo-prompt card out of the way.
	self.PhotoURL = "https://cdn.example.com/self.jpg"
	require.NoError(t, h.Storage.SaveUser(self))

	_, err = h.Relationship.Follow(self.ID, author.ID)
	require.NoError(t, err)
	_, err = h.Feed.AddPost(author.ID, "hello @self_user")
	require.NoError(t, err)
	return self
}

func getSelf(t *testing.T, h *Handler, userID, query string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/self", h.AuthRequired(), h.GetSelf)

	token, err := h.generateToken(userID, false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/self"+query, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	return w
}

type selfBody struct {
	Chats  json.RawMessage   `json:"chats"`
	Cards  []json.RawMessage `json:"cards"`
	Feed   []json.RawMessage `json:"feed"`
	Errors map[string]string `json:"errors"`
}

// TestGetSelf_BadLimitIsolatedToField verifies an out-of-range limit nulls
// only its own field and records an error for it while the sibling fields
// still resolve.
func TestGetSelf_BadLimitIsolatedToField(t *testing.T) {
	h, _ := newSelfHandler(t)
	self := seedSelf(t, h)

	w := getSelf(t, h, self.ID, "?chatLimit=0")
	require.Equal(t, http.StatusOK, w.Code)

	var body selfBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "null", string(body.Chats))
	assert.Contains(t, body.Errors, "chatLimit")
	assert.NotContains(t, body.Errors, "cardLimit")
	assert.NotContains(t, body.Errors, "feedLimit")
	assert.Len(t, body.Cards, 1, "cards must resolve despite the bad chat limit")
	assert.Len(t, body.Feed, 1, "feed must resolve despite the bad chat limit")
}

// TestGetSelf_SiblingQueryFailureIsRecorded verifies a field that fails for a
// reason other than its limit is returned as null with an errors entry, so
// "empty" and "could not resolve" stay distinguishable.
func TestGetSelf_SiblingQueryFailureIsRecorded(t *testing.T) {
	h, st := newSelfHandler(t)
	self := seedSelf(t, h)

	require.NoError(t, st.DB.Exec("DROP TABLE chat_memberships").Error)

	w := getSelf(t, h, self.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body selfBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "null", string(body.Chats))
	assert.Contains(t, body.Errors, "chats")
	assert.Len(t, body.Cards, 1)
	assert.Len(t, body.Feed, 1)
}
