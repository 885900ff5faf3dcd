package trackview

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds editor-wide defaults. It is usually loaded from a TOML file:
//
//	debug = false
//	log_level = "warn"
//	fps = 30
//	default_ease = "linear"
//	snap_to_keys = false
//
//	[default_range]
//	start = 0.0
//	end = 10.0
type Config struct {
	Debug        bool        `toml:"debug"`
	LogLevel     string      `toml:"log_level"`
	DefaultRange RangeConfig `toml:"default_range"`
	FPS          float64     `toml:"fps"`
	DefaultEase  string      `toml:"default_ease"`
	SnapToKeys   bool        `toml:"snap_to_keys"`
}

// RangeConfig is the TOML form of a Range.
type RangeConfig struct {
	Start float64 `toml:"start"`
	End   float64 `toml:"end"`
}

// Range converts the config to a Range.
func (r RangeConfig) Range() Range { return Range{Start: r.Start, End: r.End} }

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "warn",
		DefaultRange: RangeConfig{Start: DefaultTimeRange.Start, End: DefaultTimeRange.End},
		FPS:          30,
		DefaultEase:  EaseLinear.String(),
	}
}

// ParseConfig decodes TOML data over the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("trackview: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the TOML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("trackview: load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("trackview: config fps must be positive, got %g", c.FPS)
	}
	if c.DefaultRange.End < c.DefaultRange.Start {
		return fmt.Errorf("trackview: config default_range end %g before start %g", c.DefaultRange.End, c.DefaultRange.Start)
	}
	if _, ok := ParseEase(c.DefaultEase); !ok {
		return fmt.Errorf("trackview: config default_ease %q unknown", c.DefaultEase)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Ease returns the configured default ease.
func (c Config) Ease() Ease {
	e, _ := ParseEase(c.DefaultEase)
	return e
}

// SlogLevel parses LogLevel. An empty level means warn.
func (c Config) SlogLevel() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("trackview: config log_level: %w", err)
	}
	return l, nil
}

// Marshal encodes the config as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
