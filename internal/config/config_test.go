package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestNewConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "@every 6h", cfg.KeyRateSchedule)
	assert.True(t, cfg.KeyRateMargin.IsZero())
	assert.True(t, cfg.AutoMigrate)
	assert.Empty(t, cfg.RedisAddr)
}

func TestNewConfig_FromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("KEY_RATE_MARGIN", "1.25")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "1.25", cfg.KeyRateMargin.String())
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestNewConfig_InvalidValues(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("KEY_RATE_MARGIN", "abc")
	_, err := NewConfig()
	assert.Error(t, err)

	t.Setenv("KEY_RATE_MARGIN", "0")
	t.Setenv("DB_CONN", "")
	_, err = NewConfig()
	assert.Error(t, err)
}
