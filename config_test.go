package trackview

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, EaseLinear, cfg.Ease())
	assert.Equal(t, DefaultTimeRange, cfg.DefaultRange.Range())
}

func TestParseConfigOverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
fps = 60.0
default_ease = "out-quad"
snap_to_keys = true

[default_range]
end = 4.5
`))
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.FPS)
	assert.Equal(t, EaseOutQuad, cfg.Ease())
	assert.True(t, cfg.SnapToKeys)
	assert.Equal(t, Range{Start: 0, End: 4.5}, cfg.DefaultRange.Range())
	assert.Equal(t, "warn", cfg.LogLevel, "unset keys keep their defaults")
}

func TestParseConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `fps = `},
		{"fps", `fps = -1.0`},
		{"ease", `default_ease = "bounce"`},
		{"level", `log_level = "loud"`},
		{"range", "[default_range]\nstart = 5.0\nend = 1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	l, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	cfg.LogLevel = ""
	l, err = cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trackview.toml")

	cfg := DefaultConfig()
	cfg.Debug = true
	cfg.DefaultEase = EaseInCubic.String()
	data, err := cfg.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestNewManagerCopiesConfig(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, nil, &messages{})
	cfg.FPS = 1
	assert.Equal(t, 30.0, m.Config().FPS)
}
