package storage

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/eventlive/eventlive-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and single-process runs
type MemoryStore struct {
	users   map[string]*models.ChannelUser
	logs    []*models.ChatLog
	notices []*models.Notice
	points  []*models.Point

	// Mutexes for thread safety
	userMu  sync.RWMutex
	logMu   sync.RWMutex
	venueMu sync.RWMutex

	// Counters for ID generation
	userCounter   uint
	logCounter    uint
	noticeCounter uint
	pointCounter  uint

	now func() time.Time
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*models.ChannelUser),
		now:   time.Now,
	}
}

// WithClock replaces the timestamp source; used by tests to force ties.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

// User operations
func (m *MemoryStore) UpsertUser(_ context.Context, ownerID string, name *string) (*models.ChannelUser, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	user, exists := m.users[ownerID]
	if !exists {
		m.userCounter++
		user = &models.ChannelUser{
			ID:            m.userCounter,
			ChannelUserID: ownerID,
			CreatedAt:     m.now(),
		}
		m.users[ownerID] = user
	}
	if name != nil {
		n := *name
		user.Name = &n
	}

	out := *user
	return &out, nil
}

func (m *MemoryStore) GetUser(_ context.Context, ownerID string) (*models.ChannelUser, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[ownerID]
	if !exists {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

// Chat log operations
func (m *MemoryStore) AppendLog(ctx context.Context, ownerID string, role models.Role, message string) (uint, error) {
	if _, err := m.GetUser(ctx, ownerID); err != nil {
		return 0, fmt.Errorf("append log for %q: channel user %w", ownerID, err)
	}

	m.logMu.Lock()
	defer m.logMu.Unlock()

	m.logCounter++
	m.logs = append(m.logs, &models.ChatLog{
		ID:            m.logCounter,
		ChannelUserID: ownerID,
		Role:          role,
		Message:       message,
		CreatedAt:     m.now(),
	})
	return m.logCounter, nil
}

func (m *MemoryStore) RecentLogs(_ context.Context, ownerID string, role models.Role, limit int) ([]*models.ChatLog, error) {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	var results []*models.ChatLog
	for _, log := range m.logs {
		if log.ChannelUserID != ownerID {
			continue
		}
		if role != "" && log.Role != role {
			continue
		}
		out := *log
		results = append(results, &out)
	}

	// Newest first; equal timestamps fall back to insertion order.
	slices.SortFunc(results, func(a, b *models.ChatLog) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Venue operations
func (m *MemoryStore) LatestNotice(_ context.Context, venue int, kind models.NoticeKind) (*models.Notice, error) {
	m.venueMu.RLock()
	defer m.venueMu.RUnlock()

	for i := len(m.notices) - 1; i >= 0; i-- {
		n := m.notices[i]
		if n.Loc == venue && n.MsgType == kind {
			out := *n
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) PointsByType(_ context.Context, venue int, posType models.PointType) ([]*models.Point, error) {
	m.venueMu.RLock()
	defer m.venueMu.RUnlock()

	var points []*models.Point
	for _, p := range m.points {
		if p.Loc == venue && p.PosType == posType {
			out := *p
			points = append(points, &out)
		}
	}
	return points, nil
}

func (m *MemoryStore) CreateNotice(_ context.Context, notice *models.Notice) (*models.Notice, error) {
	m.venueMu.Lock()
	defer m.venueMu.Unlock()

	m.noticeCounter++
	notice.ID = m.noticeCounter
	notice.CreatedAt = m.now()

	stored := *notice
	m.notices = append(m.notices, &stored)
	return notice, nil
}

func (m *MemoryStore) CreatePoint(_ context.Context, point *models.Point) (*models.Point, error) {
	m.venueMu.Lock()
	defer m.venueMu.Unlock()

	m.pointCounter++
	point.ID = m.pointCounter

	stored := *point
	m.points = append(m.points, &stored)
	return point, nil
}

func (m *MemoryStore) Stats(_ context.Context) (*models.StoreStats, error) {
	m.userMu.RLock()
	users := len(m.users)
	m.userMu.RUnlock()

	m.logMu.RLock()
	logs := len(m.logs)
	m.logMu.RUnlock()

	m.venueMu.RLock()
	defer m.venueMu.RUnlock()

	return &models.StoreStats{
		Users:   int64(users),
		Logs:    int64(logs),
		Notices: int64(len(m.notices)),
		Points:  int64(len(m.points)),
	}, nil
}
