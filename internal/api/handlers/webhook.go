package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/facetag/internal/bot"
	"github.com/your-org/facetag/internal/telegram"
)

type WebhookHandler struct {
	bot *bot.Bot
}

func NewWebhookHandler(b *bot.Bot) *WebhookHandler {
	return &WebhookHandler{bot: b}
}

// Handle processes one Telegram update. The response is always 200 with an
// empty body; everything the user needs to know goes out as a chat message.
func (h *WebhookHandler) Handle(c *gin.Context) {
	var upd telegram.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		slog.Warn("malformed webhook payload", "error", err)
		c.Status(http.StatusOK)
		return
	}

	h.bot.HandleUpdate(c.Request.Context(), upd)
	c.Status(http.StatusOK)
}
