package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eventlive/eventlive-backend/internal/services"
)

// DirectWebhookHandler serves the simplified webhook that answers in the
// HTTP response instead of through the ChannelTalk API.
type DirectWebhookHandler struct {
	direct *services.DirectService
	log    *zap.Logger
}

func NewDirectWebhookHandler(direct *services.DirectService, log *zap.Logger) *DirectWebhookHandler {
	return &DirectWebhookHandler{direct: direct, log: log.Named("direct_webhook")}
}

func (h *DirectWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	payload, err := services.DecodeNode(c.Body())
	if err != nil || !payload.IsObject() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "request body must be a JSON object",
		})
	}

	reply, err := h.direct.Handle(c.UserContext(), payload)
	if err != nil {
		h.log.Error("failed to process direct webhook", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to process webhook",
		})
	}

	if reply.Role == services.RoleOperator {
		return c.JSON(fiber.Map{
			"ok":   true,
			"role": reply.Role,
			"msg":  reply.Message,
		})
	}
	return c.JSON(fiber.Map{
		"ok":         true,
		"role":       reply.Role,
		"reply":      reply.Message,
		"userChatId": reply.UserChatID,
	})
}
