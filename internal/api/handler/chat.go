package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) CreateDirectChat(c *gin.Context) {
	var req struct {
		UserID       string `json:"userId" binding:"required"`
		ChatID       string `json:"chatId"`
		FirstMessage string `json:"firstMessage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and firstMessage required"})
		return
	}
	if req.ChatID == "" {
		req.ChatID = uuid.New().String()
	}
	chat, err := h.Chat.CreateDirectChat(actingUser(c), req.UserID, req.ChatID, req.FirstMessage)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	view, err := h.Chat.GetChatForViewer(actingUser(c), chat.ID, 20, 0)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) CreateGroupChat(c *gin.Context) {
	var req struct {
		ChatID       string   `json:"chatId"`
		MemberIDs    []string `json:"memberIds"`
		Name         *string  `json:"name"`
		FirstMessage string   `json:"firstMessage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "firstMessage required"})
		return
	}
	if req.ChatID == "" {
		req.ChatID = uuid.New().String()
	}
	chat, err := h.Chat.CreateGroupChat(actingUser(c), req.ChatID, req.MemberIDs, req.Name, req.FirstMessage)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	view, err := h.Chat.GetChatForViewer(actingUser(c), chat.ID, 20, 0)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) AddToGroupChat(c *gin.Context) {
	var req struct {
		MemberIDs []string `json:"memberIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "memberIds required"})
		return
	}
	added, err := h.Chat.AddToGroupChat(actingUser(c), c.Param("chatId"), req.MemberIDs)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	ids := make([]string, len(added))
	for i, u := range added {
		ids[i] = u.ID
	}
	c.JSON(http.StatusOK, gin.H{"addedUserIds": ids})
}

func (h *Handler) LeaveGroupChat(c *gin.Context) {
	if err := h.Chat.LeaveGroupChat(actingUser(c), c.Param("chatId")); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": c.Param("chatId")})
}

func (h *Handler) EditGroupChat(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if err := h.Chat.EditGroupChatName(actingUser(c), c.Param("chatId"), req.Name); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chatId": c.Param("chatId")})
}

func (h *Handler) ListChats(c *gin.Context) {
	limit, err := pageLimit(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	views, err := h.Chat.ListChatsForViewer(actingUser(c), limit, pageOffset(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": views})
}

// GetChat resolves a chat for the viewer. Invisible chats (non-member,
// suppressed) resolve to a null body rather than an error, matching the
// "null, not not-found" read contract.
func (h *Handler) GetChat(c *gin.Context) {
	limit, err := pageLimit(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	view, err := h.Chat.GetChatForViewer(actingUser(c), c.Param("chatId"), limit, pageOffset(c))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"chat": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat": view})
}

func (h *Handler) ChatUsers(c *gin.Context) {
	users, err := h.Chat.ChatUsersForViewer(actingUser(c), c.Param("chatId"), c.Query("excludeUserId"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"users": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) DirectChatWith(c *gin.Context) {
	chat, err := h.Chat.DirectChatWith(actingUser(c), c.Param("userId"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat": chat})
}

func (h *Handler) AddChatMessage(c *gin.Context) {
	var req struct {
		ChatID string `json:"chatId" binding:"required"`
		Text   string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chatId and text required"})
		return
	}
	msg, err := h.Chat.AddMessage(actingUser(c), req.ChatID, req.Text)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) EditChatMessage(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text required"})
		return
	}
	msg, err := h.Chat.EditMessage(actingUser(c), c.Param("messageId"), req.Text)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) DeleteChatMessage(c *gin.Context) {
	if err := h.Chat.DeleteMessage(actingUser(c), c.Param("messageId")); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("messageId")})
}

func (h *Handler) FlagChatMessage(c *gin.Context) {
	result, err := h.Moderation.FlagMessage(actingUser(c), c.Param("messageId"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messageId":      c.Param("messageId"),
		"forceDeleted":   result.ForceDeleted,
		"authorDisabled": result.AuthorDisabled,
	})
}
