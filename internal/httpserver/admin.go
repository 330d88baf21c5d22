package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *handlers) adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "email and password are required")
		return
	}
	u, token, err := h.deps.AuthSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Printf("admin: login user_id=%s", u.ID)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"tokenType": "Bearer",
		"expiresIn": h.deps.AuthSvc.TokenTTLSeconds(),
		"user":      u,
	})
}

func (h *handlers) adminLogout(c *gin.Context) {
	if err := h.deps.AuthSvc.Logout(c.Request.Context(), c.GetString(adminTokenCtxKey)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminStats(c *gin.Context) {
	st, err := h.deps.AdminSvc.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handlers) adminPending(c *gin.Context) {
	products, err := h.deps.AdminSvc.ListPending(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) adminApprove(c *gin.Context) {
	p, err := h.deps.AdminSvc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Printf("admin: %s approved product id=%s", adminEmail(c), p.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product approved"})
}

func (h *handlers) adminReject(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "body", "invalid JSON body")
		return
	}
	p, err := h.deps.AdminSvc.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Printf("admin: %s rejected product id=%s", adminEmail(c), p.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product rejected"})
}

func (h *handlers) adminRecentListings(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	products, err := h.deps.AdminSvc.RecentListings(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) adminUsers(c *gin.Context) {
	users, err := h.deps.AdminSvc.Users(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handlers) adminRevenue(c *gin.Context) {
	months, ok := queryInt(c, "months")
	if !ok {
		return
	}
	points, err := h.deps.AdminSvc.Revenue(c.Request.Context(), months)
	if err != nil {
		if h.deps.SampleFallback {
			h.logger.Printf("admin: serving sample revenue after error=%v", err)
			markSource(c, dataSourceSample)
			c.JSON(http.StatusOK, sampleRevenue)
			return
		}
		h.writeError(c, err)
		return
	}
	markSource(c, dataSourceLive)
	c.JSON(http.StatusOK, points)
}

func adminEmail(c *gin.Context) string {
	if u := adminFrom(c); u != nil {
		return u.Email
	}
	return "unknown"
}

// queryInt parses an optional integer query parameter; absent means zero.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, name, name+" must be an integer")
		return 0, false
	}
	return n, true
}
