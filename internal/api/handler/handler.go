// Package handler exposes the mutation/query surface over gin and the
// subscription surface over websockets.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"socialite/backend/internal/cards"
	"socialite/backend/internal/chat"
	"socialite/backend/internal/config"
	"socialite/backend/internal/feed"
	"socialite/backend/internal/match"
	"socialite/backend/internal/moderation"
	"socialite/backend/internal/notifyhub"
	"socialite/backend/internal/relationship"
	"socialite/backend/internal/storage"
	"socialite/backend/internal/users"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrBadLimit marks an out-of-range pagination limit.
var ErrBadLimit = errors.New("limit must be between 1 and 100")

// Handler wires every domain service into the HTTP surface.
type Handler struct {
	Storage      *storage.Service
	Users        *users.Service
	Relationship *relationship.Service
	Match        *match.Service
	Chat         *chat.Service
	Moderation   *moderation.Service
	Feed         *feed.Service
	Cards        *cards.Service
	Hub          *notifyhub.Manager
	JWTSecret    []byte
	Logger       *zap.Logger
}

// RegisterRoutes attaches every endpoint to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/token", h.IssueChannelToken)
	r.GET("/ws", h.ServeSubscription)

	authed := r.Group("/", h.AuthRequired())
	{
		authed.POST("/users", h.CreateUser)
		authed.GET("/users/:userId", h.GetProfile)
		authed.GET("/self", h.GetSelf)
		authed.POST("/users/disable", h.DisableUser)
		authed.POST("/users/enable", h.EnableUser)
		authed.POST("/users/privacy", h.SetPrivacy)

		authed.POST("/block", h.BlockUser)
		authed.POST("/unblock", h.UnblockUser)
		authed.POST("/follow", h.FollowUser)
		authed.POST("/unfollow", h.UnfollowUser)
		authed.POST("/follow/accept", h.AcceptFollower)
		authed.POST("/follow/deny", h.DenyFollower)

		authed.POST("/dating/status", h.SetDatingStatus)
		authed.GET("/dating/potential", h.PotentialMatches)
		authed.GET("/dating/matched", h.MatchedUsers)
		authed.POST("/dating/approve", h.ApproveMatch)
		authed.POST("/dating/reject", h.RejectMatch)

		authed.POST("/chats/direct", h.CreateDirectChat)
		authed.POST("/chats/group", h.CreateGroupChat)
		authed.POST("/chats/:chatId/members", h.AddToGroupChat)
		authed.POST("/chats/:chatId/leave", h.LeaveGroupChat)
		authed.POST("/chats/:chatId/name", h.EditGroupChat)
		authed.GET("/chats", h.ListChats)
		authed.GET("/chats/:chatId", h.GetChat)
		authed.GET("/chats/:chatId/users", h.ChatUsers)
		authed.GET("/chats/direct/:userId", h.DirectChatWith)
		authed.POST("/messages", h.AddChatMessage)
		authed.POST("/messages/:messageId/edit", h.EditChatMessage)
		authed.POST("/messages/:messageId/delete", h.DeleteChatMessage)
		authed.POST("/messages/:messageId/flag", h.FlagChatMessage)

		authed.POST("/posts", h.AddPost)
		authed.POST("/posts/:postId/edit", h.EditPost)
		authed.POST("/posts/:postId/delete", h.DeletePost)
		authed.POST("/posts/:postId/archive", h.ArchivePost)
		authed.POST("/posts/views", h.ReportPostViews)
		authed.GET("/feed", h.GetFeed)

		authed.GET("/cards", h.ListCards)
		authed.POST("/cards/:cardId/delete", h.DeleteCard)
	}

	internal := r.Group("/internal", h.ServiceTokenRequired())
	{
		internal.POST("/notifications/trigger", h.TriggerNotification)
	}
}

// pageLimit parses the limit query parameter. Values outside [1,100] are a
// validation error; absence falls back to the default.
func pageLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return config.PageLimitDefault, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadLimit, raw)
	}
	return checkLimit(limit)
}

func checkLimit(limit int) (int, error) {
	if limit < config.PageLimitMin || limit > config.PageLimitMax {
		return 0, fmt.Errorf("%w: %d", ErrBadLimit, limit)
	}
	return limit, nil
}

func pageOffset(c *gin.Context) int {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// abortWithError maps a domain error to an HTTP response.
func (h *Handler) abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrBadLimit),
		errors.Is(err, users.ErrValidation),
		errors.Is(err, chat.ErrEmptyText),
		errors.Is(err, feed.ErrEmptyText):
		status = http.StatusBadRequest
	case errors.Is(err, relationship.ErrNotActive),
		errors.Is(err, chat.ErrNotActive),
		errors.Is(err, match.ErrNotActive),
		errors.Is(err, moderation.ErrNotActive),
		errors.Is(err, feed.ErrNotActive),
		errors.Is(err, users.ErrNotActive),
		errors.Is(err, relationship.ErrBlockedByTarget),
		errors.Is(err, relationship.ErrHasBlockedTarget),
		errors.Is(err, chat.ErrBlocked),
		errors.Is(err, match.ErrBlocked),
		errors.Is(err, moderation.ErrBlockRelationship),
		errors.Is(err, chat.ErrNotAuthor),
		errors.Is(err, feed.ErrNotAuthor),
		errors.Is(err, cards.ErrNotOwner),
		errors.Is(err, moderation.ErrCannotFlagSystem),
		errors.Is(err, moderation.ErrCannotFlagOwn):
		status = http.StatusForbidden
	case errors.Is(err, relationship.ErrSelfTarget),
		errors.Is(err, chat.ErrSelfChat),
		errors.Is(err, match.ErrSelfTarget),
		errors.Is(err, match.ErrDatingDisabled),
		errors.Is(err, match.ErrNotPotential),
		errors.Is(err, chat.ErrWrongChatType):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, relationship.ErrAlreadyBlocked),
		errors.Is(err, relationship.ErrAlreadyFollowing),
		errors.Is(err, relationship.ErrAlreadyRequested),
		errors.Is(err, relationship.ErrAlreadyResolved),
		errors.Is(err, match.ErrAlreadyResolved),
		errors.Is(err, chat.ErrAlreadyExists),
		errors.Is(err, moderation.ErrAlreadyFlagged),
		errors.Is(err, users.ErrUsernameTaken):
		status = http.StatusConflict
	case errors.Is(err, relationship.ErrNotBlocking),
		errors.Is(err, relationship.ErrNotFollowing),
		errors.Is(err, relationship.ErrNoRequestFound),
		errors.Is(err, chat.ErrNotMember),
		errors.Is(err, moderation.ErrNotMember):
		status = http.StatusNotFound
	case errors.Is(err, relationship.ErrInvalidTarget),
		errors.Is(err, chat.ErrInvalidTarget):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed", zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
