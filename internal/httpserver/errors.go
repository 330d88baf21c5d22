package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"legato/internal/checkout"
	"legato/internal/domain"
	authsvc "legato/internal/service/auth"
)

// writeError maps service errors to a status code and a JSON body. Unknown
// errors are logged and reported as 500 without detail.
func (h *handlers) writeError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, validationBody(vErr))
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "resource not found"})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": err.Error()})
	case errors.Is(err, checkout.ErrPaymentFailed):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment_failed", "message": checkout.ErrPaymentFailed.Error()})
	case errors.Is(err, authsvc.ErrInvalidCredentials), errors.Is(err, authsvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "timeout"})
	case errors.Is(err, context.Canceled):
		c.Status(http.StatusRequestTimeout)
	default:
		h.logger.Printf("http: %s %s error=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func validationBody(vErr *domain.ValidationError) gin.H {
	return gin.H{"error": "validation_failed", "field": vErr.Field, "message": vErr.Message}
}

func badRequest(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "field": field, "message": message})
}

// isClientError reports errors caused by the request rather than a backend.
func isClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound)
}
