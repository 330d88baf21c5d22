package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"legato/internal/domain"
	authsvc "legato/internal/service/auth"
)

const (
	sessionHeader    = "X-Legato-Session"
	sessionCookie    = "legato_session"
	sessionCtxKey    = "legato.session"
	adminCtxKey      = "legato.admin"
	adminTokenCtxKey = "legato.admin_token"
	sessionMaxAge    = 30 * 24 * 60 * 60
	maxSessionLength = 128
)

// sessionMiddleware resolves the shopper session from the header or cookie and
// issues a new one when neither is present.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := strings.TrimSpace(c.GetHeader(sessionHeader))
		if session == "" {
			if v, err := c.Cookie(sessionCookie); err == nil {
				session = strings.TrimSpace(v)
			}
		}
		if session == "" || len(session) > maxSessionLength {
			session = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, session, sessionMaxAge, "/", "", false, true)
		}
		c.Header(sessionHeader, session)
		c.Set(sessionCtxKey, session)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) string {
	return c.GetString(sessionCtxKey)
}

// adminAuthMiddleware requires a valid bearer token on every admin route.
func adminAuthMiddleware(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "missing bearer token"})
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), token)
		if errors.Is(err, authsvc.ErrInvalidToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid or expired token"})
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}
		c.Set(adminCtxKey, u)
		c.Set(adminTokenCtxKey, token)
		c.Next()
	}
}

func adminFrom(c *gin.Context) *domain.User {
	v, ok := c.Get(adminCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
