package httpserver

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds a Server with every API route registered.
func New(addr string, logger *log.Logger, deps Deps) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router, err := buildRouter(logger, deps)
	if err != nil {
		return nil, err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// health reports the database and every optional backing service. Only a
// database failure fails the health check.
func (h *handlers) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok", "database": "connected"}
	if h.deps.Database == nil {
		status = http.StatusServiceUnavailable
		body["status"], body["database"] = "unavailable", "not configured"
	} else if err := h.deps.Database.Ping(ctx); err != nil {
		h.logger.Printf("health: database ping error=%v", err)
		status = http.StatusServiceUnavailable
		body["status"], body["database"] = "unavailable", "unreachable"
	}

	names := make([]string, 0, len(h.deps.Services))
	for name := range h.deps.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	services := gin.H{}
	for _, name := range names {
		if err := h.deps.Services[name].Ping(ctx); err != nil {
			h.logger.Printf("health: %s ping error=%v", name, err)
			services[name] = "unreachable"
			continue
		}
		services[name] = "connected"
	}
	body["services"] = services

	c.JSON(status, body)
}
