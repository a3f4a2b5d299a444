package handler

import (
	"net/http"

	"projecthub/internal/notify"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	center *notify.Center
}

func NewNotificationHandler(center *notify.Center) *NotificationHandler {
	return &NotificationHandler{center: center}
}

// List returns the caller's unexpired feedback messages.
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": h.center.Active(actor.ID)})
}

// Logout is the session teardown hook. The credential itself is discarded
// client-side; here we just drop the user's pending messages.
func (h *NotificationHandler) Logout(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	h.center.Clear(actor.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
