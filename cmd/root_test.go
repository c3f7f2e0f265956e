package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventlive/eventlive-backend/internal/config"
	"github.com/eventlive/eventlive-backend/internal/storage"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "eventlive dev\n", out.String())
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{UseMemoryStore: true}
	store, closeStore, err := openStore(cfg, zap.NewNop(), true)
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &storage.MemoryStore{}, store)
}

func TestOpenFieldStore(t *testing.T) {
	ctx := context.Background()

	t.Run("no url", func(t *testing.T) {
		fields, closeFields := openFieldStore(ctx, &config.Config{}, zap.NewNop())
		defer closeFields()
		assert.IsType(t, &storage.MemoryFieldStore{}, fields)
	})

	t.Run("redis reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{Redis: config.RedisConfig{URL: "redis://" + mr.Addr()}}
		fields, closeFields := openFieldStore(ctx, cfg, zap.NewNop())
		defer closeFields()
		assert.IsType(t, &storage.RedisFieldStore{}, fields)
	})

	t.Run("redis unreachable falls back", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		cfg := &config.Config{Redis: config.RedisConfig{URL: "redis://" + addr}}
		fields, closeFields := openFieldStore(ctx, cfg, zap.NewNop())
		defer closeFields()
		assert.IsType(t, &storage.MemoryFieldStore{}, fields)
	})
}
