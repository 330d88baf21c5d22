package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"legato/internal/checkout"
	"legato/internal/domain"
)

func (h *handlers) checkout(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON body")
		return
	}
	conf, err := h.deps.CheckoutSvc.Place(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusUnprocessableEntity, validationBody(vErr))
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conf)
}
