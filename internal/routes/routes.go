package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventlive/eventlive-backend/internal/handlers"
	"github.com/eventlive/eventlive-backend/internal/metrics"
	"github.com/eventlive/eventlive-backend/internal/middleware"
)

// Dependencies collects everything the route table needs. Admin may be nil,
// in which case the /admin routes are not mounted.
type Dependencies struct {
	Health  *handlers.HealthHandler
	Channel *handlers.ChannelWebhookHandler
	Direct  *handlers.DirectWebhookHandler
	Admin   *handlers.AdminHandler

	ChannelVerifier *middleware.WebhookVerifier
	DirectVerifier  *middleware.WebhookVerifier
	AdminToken      string

	Metrics *metrics.Metrics
	Log     *zap.Logger
}

// NewApp creates the fiber app with the shared error handler and middleware.
func NewApp(appName string, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: appName,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
	}))
	app.Use(recover.New())

	return app
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, deps Dependencies) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	app.Get("/", deps.Health.Root)
	app.Get("/health", deps.Health.Check)

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// ChannelTalk event webhook
	app.Post("/channel/webhook",
		middleware.ValidateWebhook(deps.ChannelVerifier, log, "X-Signature"),
		deps.Channel.HandleWebhook,
	)

	// Direct webhook, answered synchronously
	direct := middleware.ValidateWebhook(deps.DirectVerifier, log, "X-Signature", "X-Channel-Signature")
	app.Post("/", direct, deps.Direct.HandleWebhook)
	app.Post("/webhook", direct, deps.Direct.HandleWebhook)

	if deps.Admin != nil && deps.AdminToken != "" {
		admin := app.Group("/admin", middleware.RequireAdminToken(deps.AdminToken))
		admin.Post("/notices", deps.Admin.CreateNotice)
		admin.Post("/points", deps.Admin.CreatePoint)
		admin.Get("/users/:ownerID/logs", deps.Admin.GetUserLogs)
		admin.Get("/stats", deps.Admin.GetStats)
	}
}
