package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eventlive/eventlive-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ChannelUser{}, &models.ChatLog{}, &models.Notice{}, &models.Point{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func storeImplementations() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"database": func(t *testing.T) Store {
			return NewDatabaseStore(newTestDB(t))
		},
	}
}

func TestStore_UpsertUserIsIdempotent(t *testing.T) {
	for name, newStore := range storeImplementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			first, err := s.UpsertUser(ctx, "u1", strPtr("Kim"))
			require.NoError(t, err)
			second, err := s.UpsertUser(ctx, "u1", strPtr("Kim Minsu"))
			require.NoError(t, err)

			require.Equal(t, first.ID, second.ID)
			require.Equal(t, "Kim Minsu", second.DisplayName())

			stats, err := s.Stats(ctx)
			require.NoError(t, err)
			require.EqualValues(t, 1, stats.Users)
		})
	}
}

func TestStore_UpsertUserNilNameKeepsExisting(t *testing.T) {
	for name, newStore := range storeImplementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			_, err := s.UpsertUser(ctx, "u1", strPtr("Lee"))
			require.NoError(t, err)
			user, err := s.UpsertUser(ctx, "u1", nil)
			require.NoError(t, err)
			require.Equal(t, "Lee", user.DisplayName())

			fresh, err := s.UpsertUser(ctx, "u2", nil)
			require.NoError(t, err)
			require.Nil(t, fresh.Name)
		})
	}
}

func TestStore_GetUserNotFound(t *testing.T) {
	for name, newStore := range storeImplementations() {
		t.Run(name, func(t *testing.T) {
			_, err := newStore(t).GetUser(context.Background(), "missing")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_RecentLogsNewestFirst(t *testing.T) {
	for name, newStore := range storeImplementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			_, err := s.UpsertUser(ctx, "u1", nil)
			require.NoError(t, err)
			_, err = s.UpsertUser(ctx, "u2", nil)
			require.NoError(t, err)

			for _, msg := range []string{"one", "two", "three"} {
				_, err := s.AppendLog(ctx, "u1", models.RoleUser, msg)
				require.NoError(t, err)
			}
			_, err = s.AppendLog(ctx, "u1", models.RoleBot, "bot reply")
			require.NoError(t, err)
			_, err = s.AppendLog(ctx, "u2", models.RoleUser, "other user")
			require.NoError(t, err)

			logs, err := s.RecentLogs(ctx, "u1", models.RoleUser, 2)
			require.NoError(t, err)
			require.Len(t, logs, 2)
			require.Equal(t, "three", logs[0].Message)
			require.Equal(t, "two", logs[1].Message)

			all, err := s.RecentLogs(ctx, "u1", "", 0)
			require.NoError(t, err)
			require.Len(t, all, 4)
			require.Equal(t, models.RoleBot, all[0].Role)
		})
	}
}

func TestStore_Venues(t *testing.T) {
	for name, newStore := range storeImplementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			_, err := s.LatestNotice(ctx, 1, models.NoticeLostItems)
			require.ErrorIs(t, err, ErrNotFound)

			for _, content := range []string{"old notice", "new notice"} {
				_, err := s.CreateNotice(ctx, &models.Notice{MsgType: models.NoticeLostItems, Loc: 1, Content: content})
				require.NoError(t, err)
			}
			_, err = s.CreateNotice(ctx, &models.Notice{MsgType: models.NoticeLostItems, Loc: 2, Content: "other venue"})
			require.NoError(t, err)

			notice, err := s.LatestNotice(ctx, 1, models.NoticeLostItems)
			require.NoError(t, err)
			require.Equal(t, "new notice", notice.Content)

			_, err = s.CreatePoint(ctx, &models.Point{Loc: 1, PosType: models.PointToilet, Title: "A", PosLong: 126.0, PosLati: 37.0})
			require.NoError(t, err)
			_, err = s.CreatePoint(ctx, &models.Point{Loc: 1, PosType: models.PointStage, Title: "Main", PosLong: 126.1, PosLati: 37.1})
			require.NoError(t, err)

			points, err := s.PointsByType(ctx, 1, models.PointToilet)
			require.NoError(t, err)
			require.Len(t, points, 1)
			require.Equal(t, "A", points[0].Title)

			none, err := s.PointsByType(ctx, 3, models.PointToilet)
			require.NoError(t, err)
			require.Empty(t, none)
		})
	}
}

func TestMemoryStore_AppendLogRequiresUser(t *testing.T) {
	_, err := NewMemoryStore().AppendLog(context.Background(), "ghost", models.RoleUser, "hi")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RecentLogsTieBreakByID(t *testing.T) {
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time { return fixed })
	ctx := context.Background()
	_, err := s.UpsertUser(ctx, "u1", nil)
	require.NoError(t, err)

	for _, msg := range []string{"a", "b", "c"} {
		_, err := s.AppendLog(ctx, "u1", models.RoleUser, msg)
		require.NoError(t, err)
	}

	logs, err := s.RecentLogs(ctx, "u1", models.RoleUser, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "a"}, []string{logs[0].Message, logs[1].Message, logs[2].Message})
}

func TestDatabaseStore_RecentLogsTieBreakByID(t *testing.T) {
	db := newTestDB(t)
	s := NewDatabaseStore(db)
	ctx := context.Background()
	_, err := s.UpsertUser(ctx, "u1", nil)
	require.NoError(t, err)

	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, msg := range []string{"a", "b", "c"} {
		require.NoError(t, db.Create(&models.ChatLog{ChannelUserID: "u1", Role: models.RoleUser, Message: msg, CreatedAt: fixed}).Error)
	}
	require.NoError(t, db.Create(&models.ChatLog{ChannelUserID: "u1", Role: models.RoleUser, Message: "older", CreatedAt: fixed.Add(-time.Minute)}).Error)

	logs, err := s.RecentLogs(ctx, "u1", models.RoleUser, 10)
	require.NoError(t, err)
	require.Len(t, logs, 4)
	require.Equal(t, "c", logs[0].Message)
	require.Equal(t, "b", logs[1].Message)
	require.Equal(t, "a", logs[2].Message)
	require.Equal(t, "older", logs[3].Message)
}
