package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvbot-backend/internal/engine"
	"cvbot-backend/internal/shared/telemetry"
)

// webhookPayload is the Z-API message-received shape, reduced to the fields
// the bot cares about.
type webhookPayload struct {
	Phone  string `json:"phone"`
	FromMe bool   `json:"fromMe"`
	Text   struct {
		Message string `json:"message"`
	} `json:"text"`
	Image struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
}

// webhookHandler normalizes an inbound Z-API callback and feeds it to the
// state machine. The provider retries on non-200, which would replay the
// message into the conversation, so the handler acknowledges with 200 no
// matter what happened; failures are logged instead.
func webhookHandler(bot *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ack := gin.H{"status": "ok"}

		var payload webhookPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			telemetry.Warn("webhook: malformed payload", map[string]any{
				"error": err.Error(),
			})
			c.JSON(http.StatusOK, ack)
			return
		}
		if payload.FromMe || payload.Phone == "" {
			c.JSON(http.StatusOK, ack)
			return
		}
		if payload.Text.Message == "" && payload.Image.ImageURL == "" {
			c.JSON(http.StatusOK, ack)
			return
		}

		ev := engine.Event{
			Identity: payload.Phone,
			Text:     payload.Text.Message,
			ImageURL: payload.Image.ImageURL,
		}
		if err := bot.HandleEvent(c.Request.Context(), ev); err != nil {
			telemetry.Error("webhook: event handling failed", map[string]any{
				"identity": ev.Identity,
				"error":    err.Error(),
			})
		}
		c.JSON(http.StatusOK, ack)
	}
}
