package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"trip-api/models"
	"trip-api/services"
)

type PushHandler struct {
	DB        *sql.DB
	Push      *services.PushService
	Reminders *services.ReminderService
}

// GetVAPIDPublicKey exposes the key the browser needs to subscribe.
func (h *PushHandler) GetVAPIDPublicKey(c *gin.Context) {
	key := os.Getenv("VAPID_PUBLIC_KEY")
	if key == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Push notifications not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": key})
}

// Subscribe registers a browser push endpoint. Re-subscribing the same
// endpoint refreshes its keys instead of erroring.
func (h *PushHandler) Subscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userAgent := c.Request.UserAgent()
	var sub models.PushSubscription
	err := h.DB.QueryRow(`
		INSERT INTO push_subscriptions (endpoint, p256dh, auth, user_agent)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (endpoint) DO UPDATE SET p256dh = $2, auth = $3, user_agent = $4
		RETURNING id, endpoint, p256dh, auth, user_agent, created_at
	`, req.Endpoint, req.Keys.P256dh, req.Keys.Auth, userAgent).
		Scan(&sub.ID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.UserAgent, &sub.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// Unsubscribe removes a push endpoint. Unknown endpoints still succeed:
// the end state is the same.
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	var req models.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.DB.Exec(`DELETE FROM push_subscriptions WHERE endpoint = $1`, req.Endpoint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SendPush broadcasts an arbitrary notification to every subscription.
func (h *PushHandler) SendPush(c *gin.Context) {
	var req models.SendPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Push.SendToAll(c.Request.Context(), models.NotificationPayload{
		Title: req.Title,
		Body:  req.Body,
		URL:   req.URL,
	})
	if err != nil {
		log.Printf("❌ Push broadcast failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CheckReminders runs the daily reminder pass. Meant for an external
// cron; when CRON_SECRET is set the caller must present it.
func (h *PushHandler) CheckReminders(c *gin.Context) {
	if secret := os.Getenv("CRON_SECRET"); secret != "" {
		if c.Query("secret") != secret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
	}

	result, err := h.Reminders.Run(c.Request.Context())
	if err != nil {
		log.Printf("❌ Reminder run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check reminders"})
		return
	}

	c.JSON(http.StatusOK, result)
}
