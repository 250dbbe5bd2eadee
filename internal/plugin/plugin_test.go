package plugin

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"economy/internal/config"
)

type consoleSender struct {
	messages []string
}

func (c *consoleSender) Name() string                { return "CONSOLE" }
func (c *consoleSender) PlayerID() (uuid.UUID, bool) { return uuid.Nil, false }
func (c *consoleSender) HasPermission(string) bool   { return true }
func (c *consoleSender) SendMessage(msg string)      { c.messages = append(c.messages, msg) }

func quietLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Enabled: true, Port: 0},
		Database: config.DatabaseConfig{
			Driver:   config.DriverSQLite,
			Path:     filepath.Join(t.TempDir(), "economy.db"),
			LogLevel: "silent",
		},
		Log: config.LogConfig{Level: "info", Format: "text"},
		Leaderboard: config.LeaderboardConfig{
			PageSize:       10,
			CacheTTL:       time.Minute,
			WarmupInterval: 10 * time.Millisecond,
		},
	}
}

func TestPlugin_JoinThenCommand(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, testConfig(t), quietLogger())
	require.NoError(t, err)
	defer p.Close()

	require.NotNil(t, p.Router)
	require.NoError(t, p.Listener.OnPlayerJoin(ctx, uuid.New(), "Steve"))

	c := &consoleSender{}
	assert.True(t, p.Commands.Execute(ctx, c, []string{"add", "Steve", "10"}))
	assert.True(t, p.Commands.Execute(ctx, c, []string{"balancetop"}))
	assert.Equal(t, []string{
		"$10,00 added to the balance of Steve",
		"1. Steve - $10,00",
	}, c.messages)
}

func TestPlugin_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Server.Enabled = false
	cfg.Redis = config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := New(ctx, cfg, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, p.Router)

	require.NoError(t, p.Listener.OnPlayerJoin(ctx, uuid.New(), "Alex"))
	p.Start(ctx)

	assert.Eventually(t, func() bool {
		keys := mr.Keys()
		for _, k := range keys {
			if k != "economy:top:gen" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond, "warmer fills the first page")

	require.NoError(t, p.Close())
	assert.NoError(t, p.Close(), "close is idempotent")
}

func TestPlugin_StoreFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"
	_, err := New(context.Background(), cfg, quietLogger())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(&config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	_, err = NewLogger(&config.LogConfig{Level: "loud"})
	assert.Error(t, err)
	_, err = NewLogger(&config.LogConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
