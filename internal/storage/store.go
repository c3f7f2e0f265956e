package storage

import (
	"context"
	"errors"

	"github.com/eventlive/eventlive-backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for conversation and venue persistence
type Store interface {
	// User operations
	UpsertUser(ctx context.Context, ownerID string, name *string) (*models.ChannelUser, error)
	GetUser(ctx context.Context, ownerID string) (*models.ChannelUser, error)

	// Chat log operations. An empty role matches every role.
	AppendLog(ctx context.Context, ownerID string, role models.Role, message string) (uint, error)
	RecentLogs(ctx context.Context, ownerID string, role models.Role, limit int) ([]*models.ChatLog, error)

	// Venue operations
	LatestNotice(ctx context.Context, venue int, kind models.NoticeKind) (*models.Notice, error)
	PointsByType(ctx context.Context, venue int, posType models.PointType) ([]*models.Point, error)
	CreateNotice(ctx context.Context, notice *models.Notice) (*models.Notice, error)
	CreatePoint(ctx context.Context, point *models.Point) (*models.Point, error)

	// Diagnostics
	Stats(ctx context.Context) (*models.StoreStats, error)
}
