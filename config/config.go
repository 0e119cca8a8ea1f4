// Package config loads framecut settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/user/framecut-cli/clip"
)

type Config struct {
	LogLevel string `env:"FRAMECUT_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"FRAMECUT_LOG_FILE"`

	// DataDir holds the export history and the UI log.
	DataDir string `env:"FRAMECUT_DATA_DIR"`
	History bool   `env:"FRAMECUT_HISTORY"  envDefault:"true"`

	TimestampLayout    string        `env:"FRAMECUT_TIMESTAMP_LAYOUT"     envDefault:"2006-01-02T15:04:05.000000Z07:00"`
	TimestampOffset    time.Duration `env:"FRAMECUT_TIMESTAMP_OFFSET"     envDefault:"0s"`
	CreationTimeOffset time.Duration `env:"FRAMECUT_CREATION_TIME_OFFSET" envDefault:"0s"`

	Codec   string `env:"FRAMECUT_CODEC"   envDefault:"libx264"`
	FFmpeg  string `env:"FRAMECUT_FFMPEG"  envDefault:"ffmpeg"`
	FFprobe string `env:"FRAMECUT_FFPROBE" envDefault:"ffprobe"`
	Mpv     string `env:"FRAMECUT_MPV"     envDefault:"mpv"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	if cfg.TimestampOffset%time.Minute != 0 {
		return nil, fmt.Errorf("FRAMECUT_TIMESTAMP_OFFSET must be whole minutes, got %s", cfg.TimestampOffset)
	}
	return cfg, nil
}

// Stamper returns the timestamp renderer described by the config.
func (c *Config) Stamper() clip.Stamper {
	return clip.Stamper{Layout: c.TimestampLayout, Offset: c.TimestampOffset}
}

// LogPath returns where the interactive UI logs when no log file is set.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "framecut.log")
}

func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "framecut"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "framecut"), nil
}
