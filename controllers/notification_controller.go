package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sigmat-api/middleware"
	"sigmat-api/services"
	"sigmat-api/utils"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	feed, err := nc.notifications.Feed(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	if err := nc.notifications.MarkRead(c.Request.Context(), c.Param("notification_id"), middleware.CurrentUserID(c)); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
