package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TIMESTUDY_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "timestudy.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 10.0, cfg.Timeline.PixelsPerSecond)
	require.Equal(t, 100*time.Millisecond, cfg.Playback.ClockInterval)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timestudy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
transport:
  mode: http
db:
  path: /var/lib/timestudy/studies.db
timeline:
  pixels_per_second: 20
  max_zoom: 5
scrub:
  double_click_window: 300ms
playback:
  render_interval: 33ms
media:
  thumbnail_width: 320
`), 0o644))

	t.Setenv("TIMESTUDY_CONFIG_PATH", path)
	t.Setenv("TIMESTUDY_LOG_LEVEL", "debug")
	t.Setenv("TIMESTUDY_SERVER_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, "/var/lib/timestudy/studies.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 20.0, cfg.Timeline.PixelsPerSecond)
	require.Equal(t, 5.0, cfg.Timeline.MaxZoom)
	require.Equal(t, 0.01, cfg.Timeline.MinZoom, "unset keys keep defaults")
	require.Equal(t, 300*time.Millisecond, cfg.Scrub.DoubleClickWindow)
	require.Equal(t, 320, cfg.Media.ThumbnailWidth)

	opts := cfg.StudyOptions()
	require.Equal(t, 20.0, opts.PixelsPerSecond)
	require.Equal(t, 5.0, opts.TimelineLimits.MaxZoom)
	require.Equal(t, 33*time.Millisecond, opts.RenderInterval)
	require.Equal(t, 300*time.Millisecond, opts.Scrub.DoubleClickWindow)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("TIMESTUDY_CONFIG_PATH", "")

	t.Setenv("TIMESTUDY_SERVER_PORT", "eighty")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("TIMESTUDY_SERVER_PORT", "")
	t.Setenv("TIMESTUDY_TRANSPORT", "carrier-pigeon")
	_, err = Load()
	require.ErrorContains(t, err, "transport mode")
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TIMESTUDY_DB_PATH=from-file.db\nTIMESTUDY_LOG_LEVEL=warn\n"), 0o644))

	t.Setenv("TIMESTUDY_CONFIG_PATH", "")
	t.Setenv("TIMESTUDY_ENV_FILE", path)
	// Already set, so the file must not replace it. Setenv also restores
	// the variables godotenv writes once the test ends.
	t.Setenv("TIMESTUDY_LOG_LEVEL", "error")
	t.Setenv("TIMESTUDY_DB_PATH", "")
	os.Unsetenv("TIMESTUDY_DB_PATH")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-file.db", cfg.DB.Path)
	require.Equal(t, "error", cfg.Log.Level)

	t.Setenv("TIMESTUDY_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	_, err = Load()
	require.ErrorContains(t, err, "read env file")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("TIMESTUDY_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}

func TestValidate_ZoomBounds(t *testing.T) {
	cfg := Default()
	cfg.Preview.MinZoom = 5
	cfg.Preview.MaxZoom = 1
	require.Error(t, cfg.Validate())
}
