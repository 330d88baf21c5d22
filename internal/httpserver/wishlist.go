package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"legato/internal/domain"
)

func (h *handlers) getWishlist(c *gin.Context) {
	items, err := h.deps.WishlistSvc.List(c.Request.Context(), sessionFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) addWishlistItem(c *gin.Context) {
	var entry domain.WishlistEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		badRequest(c, "body", "invalid JSON body")
		return
	}
	items, err := h.deps.WishlistSvc.Add(c.Request.Context(), sessionFrom(c), entry)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) removeWishlistItem(c *gin.Context) {
	items, err := h.deps.WishlistSvc.Remove(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) clearWishlist(c *gin.Context) {
	if err := h.deps.WishlistSvc.Clear(c.Request.Context(), sessionFrom(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
