package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Maps are decoded once at startup.
	Maps      []string        `yaml:"maps"`
	Watch     WatchConfig     `yaml:"watch"`
	Log       LogConfig       `yaml:"log"`
	Collision CollisionConfig `yaml:"collision"`
}

type WatchConfig struct {
	Dirs       []string      `yaml:"dirs"`
	Extensions []string      `yaml:"extensions"`
	Debounce   time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type CollisionConfig struct {
	TileLayers   []string `yaml:"tile_layers"`
	ObjectGroups []string `yaml:"object_groups"`
	TileSize     float64  `yaml:"tile_size_override"`
}

func Default() Config {
	return Config{
		Watch: WatchConfig{
			Extensions: []string{".json", ".tmj"},
			Debounce:   100 * time.Millisecond,
		},
		Log: LogConfig{Level: "info", Pretty: true},
	}
}

// Load reads a YAML config on top of Default. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: unmarshal %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.Log.ParseLevel(); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return errors.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if c.Collision.TileSize < 0 {
		return errors.Errorf("collision.tile_size_override must not be negative, got %v", c.Collision.TileSize)
	}
	return nil
}

// ParseLevel maps the configured level name to a zerolog level. An empty
// level means info.
func (l LogConfig) ParseLevel() (zerolog.Level, error) {
	if l.Level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "log.level %q", l.Level)
	}
	return lvl, nil
}
