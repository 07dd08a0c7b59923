package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCards(c *gin.Context) {
	limit, err := pageLimit(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	cards, err := h.Cards.ListCards(actingUser(c), limit, pageOffset(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	count, err := h.Cards.CardCount(actingUser(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards, "cardCount": count})
}

func (h *Handler) DeleteCard(c *gin.Context) {
	if err := h.Cards.DeleteCard(actingUser(c), c.Param("cardId")); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("cardId")})
}
