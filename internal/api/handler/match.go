package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SetDatingStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
		return
	}
	if err := h.Match.SetDatingStatus(actingUser(c), req.Status); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datingStatus": req.Status})
}

func (h *Handler) PotentialMatches(c *gin.Context) {
	limit, err := pageLimit(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	candidates, err := h.Match.PotentialMatches(actingUser(c), limit)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"potentialMatches": candidates})
}

func (h *Handler) MatchedUsers(c *gin.Context) {
	matches, err := h.Match.ConfirmedMatches(actingUser(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matchedUsers": matches})
}

func (h *Handler) ApproveMatch(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	edge, err := h.Match.Approve(actingUser(c), req.UserID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"otherUserId": req.UserID, "status": edge.Status})
}

func (h *Handler) RejectMatch(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	edge, err := h.Match.Reject(actingUser(c), req.UserID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"otherUserId": req.UserID, "status": edge.Status})
}
