package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AddPost(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text required"})
		return
	}
	post, err := h.Feed.AddPost(actingUser(c), req.Text)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) EditPost(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text required"})
		return
	}
	post, err := h.Feed.EditPost(actingUser(c), c.Param("postId"), req.Text)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.Feed.DeletePost(actingUser(c), c.Param("postId")); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("postId")})
}

func (h *Handler) ArchivePost(c *gin.Context) {
	var req struct {
		Archived bool `json:"archived"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if err := h.Feed.SetArchived(actingUser(c), c.Param("postId"), req.Archived); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"postId": c.Param("postId"), "archived": req.Archived})
}

func (h *Handler) ReportPostViews(c *gin.Context) {
	var req struct {
		PostIDs []string `json:"postIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "postIds required"})
		return
	}
	if err := h.Feed.ReportPostViews(actingUser(c), req.PostIDs); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"viewed": len(req.PostIDs)})
}

func (h *Handler) GetFeed(c *gin.Context) {
	limit, err := pageLimit(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	posts, err := h.Feed.Feed(actingUser(c), limit, pageOffset(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feed": posts})
}
