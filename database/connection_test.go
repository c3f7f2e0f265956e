package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eventlive/eventlive-backend/internal/models"
)

func TestMigrateCreatesTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	// idempotent
	require.NoError(t, Migrate(db))

	for _, model := range []interface{}{&models.ChannelUser{}, &models.ChatLog{}, &models.Notice{}, &models.Point{}} {
		require.True(t, db.Migrator().HasTable(model))
	}
}
