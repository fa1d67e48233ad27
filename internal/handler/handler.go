// Package handler is the HTTP API: request parsing, JSON shaping and routing.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portal/internal/apperr"
	"portal/internal/attendance"
	"portal/internal/auth"
	"portal/internal/user"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Healthy(ctx context.Context) bool
}

// Options configures a Handler.
type Options struct {
	Log        zerolog.Logger
	Auth       *auth.Manager
	Users      *user.Service
	Attendance *attendance.Service

	DB       Pinger
	Sessions Pinger // nil for stores that need no connectivity

	CookieName   string
	SecureCookie bool
	WebDir       string
	CORSOrigins  []string
	HSTS         bool
}

// Handler serves the JSON API.
type Handler struct {
	log        zerolog.Logger
	auth       *auth.Manager
	users      *user.Service
	attendance *attendance.Service
	db         Pinger
	sessions   Pinger

	cookieName   string
	secureCookie bool
	webDir       string
}

// New builds a Handler from o.
func New(o Options) *Handler {
	return &Handler{
		log:          o.Log,
		auth:         o.Auth,
		users:        o.Users,
		attendance:   o.Attendance,
		db:           o.DB,
		sessions:     o.Sessions,
		cookieName:   o.CookieName,
		secureCookie: o.SecureCookie,
		webDir:       o.WebDir,
	}
}

// fail renders err. Known errors keep their status and message; anything
// else is logged and hidden behind a 500.
func (h *Handler) fail(c *gin.Context, err error) {
	if e, ok := apperr.From(err); ok {
		c.AbortWithStatusJSON(e.Status, gin.H{"error": e.Message})
		return
	}
	_ = c.Error(err)
	h.log.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// bind decodes an optional JSON body into dst. An empty body leaves dst zero.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.ErrBadRequest
	}
	return nil
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, expires time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
