package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portal/internal/apperr"
	"portal/internal/auth"
	"portal/internal/metrics"
)

// ListAttendance returns the caller's records, oldest day first.
func (h *Handler) ListAttendance(c *gin.Context) {
	recs, err := h.attendance.List(c.Request.Context(), auth.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": newRecordPayloads(recs)})
}

// CheckIn records today's arrival.
func (h *Handler) CheckIn(c *gin.Context) {
	err := h.attendance.CheckIn(c.Request.Context(), auth.CurrentUser(c).ID)
	metrics.AttendanceEvents.WithLabelValues("checkin", apperr.Kind(err)).Inc()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CheckOut records today's departure.
func (h *Handler) CheckOut(c *gin.Context) {
	err := h.attendance.CheckOut(c.Request.Context(), auth.CurrentUser(c).ID)
	metrics.AttendanceEvents.WithLabelValues("checkout", apperr.Kind(err)).Inc()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
