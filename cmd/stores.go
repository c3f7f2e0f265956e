package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eventlive/eventlive-backend/database"
	"github.com/eventlive/eventlive-backend/internal/config"
	"github.com/eventlive/eventlive-backend/internal/metrics"
	"github.com/eventlive/eventlive-backend/internal/services"
	"github.com/eventlive/eventlive-backend/internal/storage"
)

// openStore returns the conversation store selected by USE_MEMORY_STORE and
// a close function for it.
func openStore(cfg *config.Config, log *zap.Logger, migrate bool) (storage.Store, func(), error) {
	if cfg.UseMemoryStore {
		log.Warn("Using in-memory storage (not for production!)")
		return storage.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if migrate {
		log.Info("Running database migrations...")
		if err := database.Migrate(db); err != nil {
			closeDB()
			return nil, nil, err
		}
		log.Info("Database migrations completed")
	}

	return storage.NewDatabaseStore(db), closeDB, nil
}

// openFieldStore uses redis when REDIS_URL is set and reachable, and the
// in-memory store otherwise.
func openFieldStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.FieldStore, func()) {
	if cfg.Redis.URL == "" {
		log.Info("REDIS_URL not set - field data kept in memory")
		return storage.NewMemoryFieldStore(), func() {}
	}

	rs, err := storage.NewRedisFieldStoreFromURL(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn("Redis unavailable - falling back to in-memory field data", zap.Error(err))
		return storage.NewMemoryFieldStore(), func() {}
	}
	log.Info("Using Redis for field data")
	return rs, func() { _ = rs.Close() }
}

func newChannelTalkClient(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *services.ChannelTalkClient {
	ct := cfg.ChannelTalk
	opts := []services.ChannelTalkOption{
		services.WithAPIBase(ct.APIBase),
		services.WithBotName(ct.BotName),
		services.WithTimeout(ct.Timeout),
		services.WithRetryOnTransportError(ct.RetryOnTransportError),
		services.WithMetrics(m),
		services.WithLogger(log.Named("channeltalk")),
	}
	if ct.RateLimit > 0 {
		burst := ct.RateBurst
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, services.WithRateLimiter(rate.NewLimiter(rate.Limit(ct.RateLimit), burst)))
	}
	if ct.AccessKey == "" || ct.AccessSecret == "" {
		log.Warn("ChannelTalk credentials not set - replies will fail until CHANNELTALK_ACCESS_KEY and CHANNELTALK_ACCESS_SECRET are configured")
	}
	return services.NewChannelTalkClient(ct.AccessKey, ct.AccessSecret, opts...)
}

func describeStore(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return fmt.Sprintf("PostgreSQL (%s)", cfg.DB.Name)
}
