package storage

import (
	"context"
	"time"

	"github.com/eventlive/eventlive-backend/internal/models"
)

// StatusTTL bounds how long an operator status stays visible when the
// backing store supports expiry.
const StatusTTL = time.Hour

// FieldStore holds operator-maintained live data: status values, FAQ
// answers and categorised location points. Redis and in-memory backends are
// interchangeable apart from expiry and durability.
type FieldStore interface {
	SetStatus(ctx context.Context, key, value string) error
	GetStatus(ctx context.Context, key string) (string, bool, error)

	// FAQs are returned in insertion order.
	AddFAQ(ctx context.Context, rec models.FaqRecord) error
	ListFAQs(ctx context.Context) ([]models.FaqRecord, error)

	// Locations are returned in insertion order.
	AddLocation(ctx context.Context, category string, point models.LocationPoint) error
	Locations(ctx context.Context, category string) ([]models.LocationPoint, error)
}
