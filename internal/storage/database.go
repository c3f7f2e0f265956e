package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eventlive/eventlive-backend/internal/models"
)

// DatabaseStore implements Store on top of gorm.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore wraps an open gorm connection.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// UpsertUser inserts the owner or, when name is non-nil, overwrites its name.
// A nil name never clears a stored one.
func (s *DatabaseStore) UpsertUser(ctx context.Context, ownerID string, name *string) (*models.ChannelUser, error) {
	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_user_id"}},
		DoNothing: true,
	}
	if name != nil {
		conflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}
	}

	user := &models.ChannelUser{ChannelUserID: ownerID, Name: name}
	if err := s.db.WithContext(ctx).Clauses(conflict).Create(user).Error; err != nil {
		return nil, fmt.Errorf("upsert channel user %q: %w", ownerID, err)
	}
	return s.GetUser(ctx, ownerID)
}

func (s *DatabaseStore) GetUser(ctx context.Context, ownerID string) (*models.ChannelUser, error) {
	var user models.ChannelUser
	err := s.db.WithContext(ctx).Where("channel_user_id = ?", ownerID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get channel user %q: %w", ownerID, err)
	}
	return &user, nil
}

func (s *DatabaseStore) AppendLog(ctx context.Context, ownerID string, role models.Role, message string) (uint, error) {
	log := &models.ChatLog{
		ChannelUserID: ownerID,
		Role:          role,
		Message:       message,
	}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return 0, fmt.Errorf("append %s log for %q: %w", role, ownerID, err)
	}
	return log.ID, nil
}

func (s *DatabaseStore) RecentLogs(ctx context.Context, ownerID string, role models.Role, limit int) ([]*models.ChatLog, error) {
	query := s.db.WithContext(ctx).Where("channel_user_id = ?", ownerID)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var logs []*models.ChatLog
	if err := query.Order("created_at DESC").Order("id DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("recent logs for %q: %w", ownerID, err)
	}
	return logs, nil
}

func (s *DatabaseStore) LatestNotice(ctx context.Context, venue int, kind models.NoticeKind) (*models.Notice, error) {
	var notice models.Notice
	err := s.db.WithContext(ctx).
		Where("msg_type = ? AND loc = ?", kind, venue).
		Order("id DESC").
		First(&notice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s notice for venue %d: %w", kind, venue, err)
	}
	return &notice, nil
}

func (s *DatabaseStore) PointsByType(ctx context.Context, venue int, posType models.PointType) ([]*models.Point, error) {
	var points []*models.Point
	err := s.db.WithContext(ctx).
		Where("pos_type = ? AND loc = ?", posType, venue).
		Order("id").
		Find(&points).Error
	if err != nil {
		return nil, fmt.Errorf("%s points for venue %d: %w", posType, venue, err)
	}
	return points, nil
}

func (s *DatabaseStore) CreateNotice(ctx context.Context, notice *models.Notice) (*models.Notice, error) {
	if err := s.db.WithContext(ctx).Create(notice).Error; err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	return notice, nil
}

func (s *DatabaseStore) CreatePoint(ctx context.Context, point *models.Point) (*models.Point, error) {
	if err := s.db.WithContext(ctx).Create(point).Error; err != nil {
		return nil, fmt.Errorf("create point: %w", err)
	}
	return point, nil
}

func (s *DatabaseStore) Stats(ctx context.Context) (*models.StoreStats, error) {
	db := s.db.WithContext(ctx)
	stats := &models.StoreStats{}
	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.ChannelUser{}, &stats.Users},
		{&models.ChatLog{}, &stats.Logs},
		{&models.Notice{}, &stats.Notices},
		{&models.Point{}, &stats.Points},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count rows: %w", err)
		}
	}
	return stats, nil
}
