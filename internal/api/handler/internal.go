package handler

import (
	"encoding/json"
	"net/http"

	"socialite/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// TriggerNotification is the server-to-server delivery hook. The service
// token guard rejects ordinary clients before this runs.
func (h *Handler) TriggerNotification(c *gin.Context) {
	var req struct {
		UserID  string          `json:"userId" binding:"required"`
		Type    string          `json:"type" binding:"required"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and type required"})
		return
	}
	err := h.Storage.PublishNotification(models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Payload: req.Payload,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivered": true})
}
