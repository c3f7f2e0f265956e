package handlers

import "github.com/gofiber/fiber/v2"

// HealthHandler handles liveness requests
type HealthHandler struct {
	Version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		Version: version,
	}
}

// Check is the load balancer probe. It has no dependencies.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// Root identifies the service.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	c.Set("X-Service-Version", h.Version)
	return c.JSON(fiber.Map{
		"ok":  true,
		"msg": "EventLive backend is running",
	})
}
