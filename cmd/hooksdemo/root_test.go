package main

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/ryanhamamura/viahooks/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	cmd := newServeCmd(zerolog.Nop())
	require.NoError(t, cmd.ParseFlags([]string{"--addr", ":9000", "--context-ttl", "45s"}))

	cfg := config.Default()
	cfg.LogLevel = "warn"
	cfg.SessionDB = "from-file.db"

	flags := config.Config{Address: ":9000", ContextTTL: 45 * time.Second, LogLevel: "info"}
	applyFlags(cmd, &cfg, flags)

	assert.Equal(t, ":9000", cfg.Address)
	assert.Equal(t, 45*time.Second, cfg.ContextTTL)
	assert.Equal(t, "warn", cfg.LogLevel, "unset flag keeps file value")
	assert.Equal(t, "from-file.db", cfg.SessionDB)
}

func TestRootCmd_HasServe(t *testing.T) {
	root := newRootCmd(zerolog.Nop())
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
	assert.NotNil(t, serve.Flags().Lookup("nats-dir"))
	assert.NotNil(t, serve.Flags().Lookup("session-db"))
}
