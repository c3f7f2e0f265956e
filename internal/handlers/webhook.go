package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eventlive/eventlive-backend/internal/services"
)

// ChannelWebhookHandler receives ChannelTalk event webhooks.
type ChannelWebhookHandler struct {
	replies *services.ReplyService
	log     *zap.Logger
	debug   bool
}

func NewChannelWebhookHandler(replies *services.ReplyService, log *zap.Logger, debug bool) *ChannelWebhookHandler {
	return &ChannelWebhookHandler{
		replies: replies,
		log:     log.Named("channel_webhook"),
		debug:   debug,
	}
}

// HandleWebhook acknowledges every event once it has been persisted. The
// reply itself is delivered in the background.
func (h *ChannelWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	body := c.Body()
	if h.debug {
		h.log.Info("webhook raw payload", zap.ByteString("body", body))
	}

	payload, err := services.DecodeNode(body)
	if err != nil {
		h.log.Warn("unparseable webhook body", zap.Error(err))
		payload = services.ParseNode(nil)
	}

	ack, err := h.replies.HandleEvent(c.UserContext(), services.ExtractEvent(payload))
	if err != nil {
		h.log.Error("failed to process webhook", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to process webhook",
		})
	}

	return c.JSON(ack)
}
