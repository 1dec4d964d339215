package controller

import (
	"net/http"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

const dateParamLayout = "2006-01-02"

type NotificationController struct {
	Service *service.NotificationService
}

func NewNotificationController(s *service.NotificationService) *NotificationController {
	return &NotificationController{Service: s}
}

// GET /notifications?date=2026-03-18
func (ctl *NotificationController) List(c *gin.Context) {
	var day time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation(dateParamLayout, raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = d
	}

	list, err := ctl.Service.List(c.Request.Context(), middleware.CurrentUser(c), day)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /notifications/unread
func (ctl *NotificationController) Unread(c *gin.Context) {
	n, err := ctl.Service.Unread(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// GET /notifications/live
func (ctl *NotificationController) Live(c *gin.Context) {
	entries, err := ctl.Service.Live(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// PUT /notifications/:id/read
func (ctl *NotificationController) MarkRead(c *gin.Context) {
	ctl.mark(c, true)
}

// PUT /notifications/:id/unread
func (ctl *NotificationController) MarkUnread(c *gin.Context) {
	ctl.mark(c, false)
}

func (ctl *NotificationController) mark(c *gin.Context, read bool) {
	if err := ctl.Service.Mark(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), read); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification updated"})
}
