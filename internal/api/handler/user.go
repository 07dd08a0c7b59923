package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}
	user, err := h.Users.Create(req.Username)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) DisableUser(c *gin.Context) {
	if err := h.Users.Disable(actingUser(c)); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "DISABLED"})
}

func (h *Handler) EnableUser(c *gin.Context) {
	if err := h.Users.Enable(actingUser(c)); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ACTIVE"})
}

func (h *Handler) SetPrivacy(c *gin.Context) {
	var req struct {
		PrivacyStatus string `json:"privacyStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "privacyStatus required"})
		return
	}
	if err := h.Users.SetPrivacy(actingUser(c), req.PrivacyStatus); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"privacyStatus": req.PrivacyStatus})
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.Users.GetProfile(actingUser(c), c.Param("userId"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetSelf resolves the caller's own profile with its aggregate fields.
// Each paginated field validates its own limit; a bad limit nulls that
// field and records an error while the siblings still resolve.
func (h *Handler) GetSelf(c *gin.Context) {
	userID := actingUser(c)
	profile, err := h.Users.GetProfile(userID, userID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	body := gin.H{"profile": profile}
	fieldErrors := gin.H{}

	resolveLimit := func(field, fallbackParam string) (int, bool) {
		raw := c.Query(field)
		if raw == "" {
			raw = fallbackParam
		}
		limit, err := strconv.Atoi(raw)
		if err != nil {
			fieldErrors[field] = ErrBadLimit.Error()
			return 0, false
		}
		if limit, err = checkLimit(limit); err != nil {
			fieldErrors[field] = err.Error()
			return 0, false
		}
		return limit, true
	}

	// Every field stays in the body: null plus an errors entry when it could
	// not be resolved, so absence is never ambiguous.
	failField := func(field string, err error) {
		h.Logger.Warn("self field failed", zap.String("field", field), zap.Error(err))
		fieldErrors[field] = "could not resolve"
	}

	body["chats"] = nil
	if limit, ok := resolveLimit("chatLimit", "20"); ok {
		if chats, err := h.Chat.ListChatsForViewer(userID, limit, 0); err == nil {
			body["chats"] = chats
		} else {
			failField("chats", err)
		}
	}

	body["cards"] = nil
	if limit, ok := resolveLimit("cardLimit", "20"); ok {
		if cards, err := h.Cards.ListCards(userID, limit, 0); err == nil {
			body["cards"] = cards
		} else {
			failField("cards", err)
		}
	}

	body["feed"] = nil
	if limit, ok := resolveLimit("feedLimit", "20"); ok {
		if posts, err := h.Feed.Feed(userID, limit, 0); err == nil {
			body["feed"] = posts
		} else {
			failField("feed", err)
		}
	}

	if count, err := h.Cards.CardCount(userID); err == nil {
		body["cardCount"] = count
	} else {
		failField("cardCount", err)
	}
	if len(fieldErrors) > 0 {
		body["errors"] = fieldErrors
	}
	c.JSON(http.StatusOK, body)
}
