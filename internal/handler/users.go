package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portal/internal/auth"
)

// GetMe returns the signed-in user.
func (h *Handler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": newUserPayload(auth.CurrentUser(c))})
}

type updateMeRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// UpdateMe changes the signed-in user's name and role.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.users.UpdateProfile(c.Request.Context(), auth.CurrentUser(c).ID, req.Name, req.Role); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
