package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type targetRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *Handler) BlockUser(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	if err := h.Relationship.Block(actingUser(c), req.UserID); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": req.UserID})
}

func (h *Handler) UnblockUser(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	if err := h.Relationship.Unblock(actingUser(c), req.UserID); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unblocked": req.UserID})
}

func (h *Handler) FollowUser(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	follow, err := h.Relationship.Follow(actingUser(c), req.UserID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followedUserId": req.UserID, "status": follow.Status})
}

func (h *Handler) UnfollowUser(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	if err := h.Relationship.Unfollow(actingUser(c), req.UserID); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unfollowedUserId": req.UserID})
}

func (h *Handler) AcceptFollower(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	if err := h.Relationship.AcceptFollow(actingUser(c), req.UserID); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followerId": req.UserID, "status": "FOLLOWING"})
}

func (h *Handler) DenyFollower(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	if err := h.Relationship.DenyFollow(actingUser(c), req.UserID); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followerId": req.UserID, "status": "DENIED"})
}
