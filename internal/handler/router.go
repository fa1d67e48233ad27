package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portal/internal/apperr"
	"portal/internal/auth"
	"portal/internal/httpmiddleware"
)

// NewRouter builds the gin engine serving the API, health, metrics and the SPA.
func NewRouter(o Options) *gin.Engine {
	h := New(o)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.Logging(o.Log, "/healthz", "/metrics"))
	r.Use(httpmiddleware.Metrics())
	if len(o.CORSOrigins) > 0 {
		r.Use(corsMiddleware(o.CORSOrigins))
	}
	r.Use(httpmiddleware.SecurityHeaders(o.HSTS))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.Healthz)

	api := r.Group("/api", auth.Sessions(o.Auth, o.CookieName, o.Log))
	{
		api.GET("/auth/me", h.Me)
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/logout", h.Logout)

		protected := api.Group("", auth.RequireUser())
		protected.GET("/users/me", h.GetMe)
		protected.PUT("/users/me", h.UpdateMe)
		protected.GET("/attendance", h.ListAttendance)
		protected.POST("/attendance/checkin", h.CheckIn)
		protected.POST("/attendance/checkout", h.CheckOut)
	}

	r.NoRoute(h.fallback)
	return r
}

// corsMiddleware admits credentialed requests from the listed origins only.
func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// Healthz reports database and session backend reachability.
func (h *Handler) Healthz(c *gin.Context) {
	ctx := c.Request.Context()
	dbOK := h.db != nil && h.db.Healthy(ctx)
	sessionsOK := h.sessions == nil || h.sessions.Healthy(ctx)

	status, code := "ok", http.StatusOK
	if !dbOK || !sessionsOK {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "db": dbOK, "sessions": sessionsOK})
}

// fallback answers unknown /api paths with JSON 404 and everything else with
// a file from the web directory, or index.html for client-side routes.
func (h *Handler) fallback(c *gin.Context) {
	p := c.Request.URL.Path
	if p == "/api" || strings.HasPrefix(p, "/api/") {
		c.JSON(apperr.ErrNotFound.Status, gin.H{"error": apperr.ErrNotFound.Message})
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(apperr.ErrNotFound.Status, gin.H{"error": apperr.ErrNotFound.Message})
		return
	}

	file := filepath.Join(h.webDir, filepath.FromSlash(path.Clean("/"+p)))
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		c.File(file)
		return
	}
	index := filepath.Join(h.webDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(apperr.ErrNotFound.Status, gin.H{"error": apperr.ErrNotFound.Message})
		return
	}
	c.File(index)
}
