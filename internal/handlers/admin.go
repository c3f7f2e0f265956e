package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eventlive/eventlive-backend/internal/models"
	"github.com/eventlive/eventlive-backend/internal/storage"
)

const (
	defaultLogLimit = 20
	maxLogLimit     = 200
)

// AdminHandler lets staff seed venue notices and points and inspect
// conversations.
type AdminHandler struct {
	store    storage.Store
	validate *validator.Validate
	log      *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store storage.Store, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		store:    store,
		validate: validator.New(),
		log:      log.Named("admin"),
	}
}

type createNoticeRequest struct {
	MsgType string `json:"msg_type" validate:"oneof='물품 공지' '분실물 공지'"`
	Loc     int    `json:"loc" validate:"gte=1"`
	Content string `json:"content" validate:"required"`
}

type createPointRequest struct {
	Loc     int      `json:"loc" validate:"gte=1"`
	PosType string   `json:"pos_type" validate:"oneof=toilet stage helpdesk booth"`
	Title   string   `json:"title" validate:"required,max=200"`
	PosLong *float64 `json:"pos_long" validate:"required"`
	PosLati *float64 `json:"pos_lati" validate:"required"`
}

// CreateNotice stores a new notice; the latest one per venue and type is
// what users see.
func (h *AdminHandler) CreateNotice(c *fiber.Ctx) error {
	var req createNoticeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	notice, err := h.store.CreateNotice(c.UserContext(), &models.Notice{
		MsgType: models.NoticeKind(req.MsgType),
		Loc:     req.Loc,
		Content: req.Content,
	})
	if err != nil {
		h.log.Error("create notice failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create notice",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(notice)
}

// CreatePoint stores a venue facility point.
func (h *AdminHandler) CreatePoint(c *fiber.Ctx) error {
	var req createPointRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	point, err := h.store.CreatePoint(c.UserContext(), &models.Point{
		Loc:     req.Loc,
		PosType: models.PointType(req.PosType),
		Title:   req.Title,
		PosLong: *req.PosLong,
		PosLati: *req.PosLati,
	})
	if err != nil {
		h.log.Error("create point failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create point",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(point)
}

// GetUserLogs returns a user's profile and their most recent log rows.
func (h *AdminHandler) GetUserLogs(c *fiber.Ctx) error {
	ownerID := c.Params("ownerID")

	limit := c.QueryInt("limit", defaultLogLimit)
	if limit <= 0 || limit > maxLogLimit {
		limit = defaultLogLimit
	}

	user, err := h.store.GetUser(c.UserContext(), ownerID)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if err != nil {
		h.log.Error("get user failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch user",
		})
	}

	logs, err := h.store.RecentLogs(c.UserContext(), ownerID, models.Role(c.Query("role")), limit)
	if err != nil {
		h.log.Error("recent logs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"logs":  logs,
		"count": len(logs),
	})
}

// GetStats reports row counts per table.
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.store.Stats(c.UserContext())
	if err != nil {
		h.log.Error("stats failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch stats",
		})
	}
	return c.JSON(stats)
}
