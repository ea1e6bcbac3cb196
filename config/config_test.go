package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STARTING_BALANCE", "")
	t.Setenv("ADMIN_ACCOUNT_IDS", " 1, 2 ,,3")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cfg.StartingBalance)
	assert.Equal(t, int64(250), cfg.DailyBonusBase)
	assert.Equal(t, []string{"1", "2", "3"}, cfg.AdminAccountIDs)
	assert.True(t, cfg.IsAdmin("2"))
	assert.False(t, cfg.IsAdmin("4"))
	assert.Equal(t, "gemarcade", cfg.NATSSubjectPrefix)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STARTING_BALANCE", "5000")
	t.Setenv("DAILY_STREAK_CAP", "not-a-number")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, int64(5000), cfg.StartingBalance)
	assert.Equal(t, int64(250), cfg.DailyStreakCap)
	assert.True(t, cfg.OTelEnabled)
}

func TestLoad_RequiresTokenOutsideTests(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost")

	_, err := load()
	assert.Error(t, err)
}

func TestGet_UsesTestConfigOverride(t *testing.T) {
	ResetConfig()
	defer ResetConfig()

	custom := NewTestConfig()
	custom.StartingBalance = 42
	SetTestConfig(custom)
	assert.Equal(t, int64(42), Get().StartingBalance)
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@db:5432", DatabaseName: "arcade"}
	assert.Equal(t, "postgres://u:p@db:5432/arcade?sslmode=disable", cfg.GetDatabaseURL())
}
