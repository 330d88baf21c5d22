package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// addCartItemRequest names the product to add. Clients that still post a
// full product object are accepted, but only its id is read; name and price
// always come from the catalog.
type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Product   *struct {
		ID string `json:"id"`
	} `json:"product"`
	Quantity *int `json:"quantity"`
}

func (r addCartItemRequest) id() string {
	if r.ProductID == "" && r.Product != nil {
		return r.Product.ID
	}
	return r.ProductID
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *handlers) getCart(c *gin.Context) {
	summary, err := h.deps.CartSvc.Summary(c.Request.Context(), sessionFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON body")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	summary, err := h.deps.CartSvc.Add(c.Request.Context(), sessionFrom(c), req.id(), qty)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		badRequest(c, "quantity", "quantity is required")
		return
	}
	summary, err := h.deps.CartSvc.UpdateQuantity(c.Request.Context(), sessionFrom(c), c.Param("id"), *req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	summary, err := h.deps.CartSvc.Remove(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handlers) clearCart(c *gin.Context) {
	if err := h.deps.CartSvc.Clear(c.Request.Context(), sessionFrom(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
