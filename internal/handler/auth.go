package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portal/internal/apperr"
	"portal/internal/auth"
	"portal/internal/metrics"
	"portal/internal/user"
)

// Me is the identity probe: the current user or null, never an error.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": newUserPayload(auth.CurrentUser(c))})
}

type signupRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an account and starts its session.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	g, err := h.auth.Signup(c.Request.Context(), auth.SessionToken(c), user.SignupInput{
		Name:     req.Name,
		Role:     req.Role,
		Email:    req.Email,
		Password: req.Password,
	})
	metrics.AuthEvents.WithLabelValues("signup", apperr.Kind(err)).Inc()
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSessionCookie(c, g.Token, g.ExpiresAt)
	h.log.Info().Str("user", g.User.ID).Msg("signed up")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login starts a session for valid credentials.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	g, err := h.auth.Login(c.Request.Context(), auth.SessionToken(c), req.Email, req.Password)
	metrics.AuthEvents.WithLabelValues("login", apperr.Kind(err)).Inc()
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSessionCookie(c, g.Token, g.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Logout always succeeds for the client; the cookie is cleared either way.
func (h *Handler) Logout(c *gin.Context) {
	err := h.auth.Logout(c.Request.Context(), auth.SessionToken(c))
	metrics.AuthEvents.WithLabelValues("logout", apperr.Kind(err)).Inc()
	h.clearSessionCookie(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
