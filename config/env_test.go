package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsWhenFilesMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadFrom(filepath.Join(dir, "app.json"), filepath.Join(dir, ".env")))

	assert.Equal(t, "3000", AppPort())
	assert.Equal(t, "memory", DatabaseDriver())
	assert.Equal(t, "", DatabaseDSN())
	assert.Equal(t, "none", CacheDriver())
	assert.Equal(t, int64(100<<10), MaxBodyBytes())
	assert.Equal(t, []string{"*"}, CORSAllowedOrigins())
	assert.True(t, MetricsEnabled())
	assert.Equal(t, 0, RateLimitPerMinute())
	assert.Equal(t, 5*time.Minute, CacheTTL())
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"APP_PORT":"4000","DB_DRIVER":"sqlite","APP_NAME":"from-json"}`)
	envPath := writeFile(t, dir, ".env", "APP_PORT=5000\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n# comment\nAPP_ENV=\"staging\"\n")

	t.Setenv("APP_ENV", "production")

	require.NoError(t, LoadFrom(jsonPath, envPath))

	assert.Equal(t, "5000", AppPort(), ".env beats app.json")
	assert.Equal(t, "production", AppEnv(), "process env beats .env")
	assert.Equal(t, "from-json", AppName())
	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, "usersapi.db", DatabaseDSN())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, CORSAllowedOrigins())
}

func TestUnknownDriverFallsBackToMemory(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	require.NoError(t, LoadFrom("", ""))

	assert.Equal(t, "memory", DatabaseDriver())
}

func TestMalformedJSONIsAnError(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"APP_PORT":`)

	assert.Error(t, LoadFrom(jsonPath, ""))
}

func TestGetIsCaseInsensitive(t *testing.T) {
	t.Setenv("FEATURE_FLAG", "on")
	require.NoError(t, LoadFrom("", ""))

	assert.Equal(t, "on", Get("feature_flag", "off"))
	assert.Equal(t, "off", Get("MISSING_KEY", "off"))
}
