package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "things.db"
	DefaultDirName        = ".things"
	DefaultLocale         = "zh"
	DefaultToggleDelay    = "3s"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "THINGS_CONFIG"
)

type LogConfig struct {
	Development bool   `toml:"development"`
	Level       string `toml:"level"`
}

type Config struct {
	DBPath      string    `toml:"db_path"`
	Locale      string    `toml:"locale"`
	ToggleDelay string    `toml:"toggle_delay"`
	Log         LogConfig `toml:"log"`
}

// ResolveConfigPath returns $THINGS_CONFIG, or ~/.things/config.toml.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, DefaultDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist. A relative db_path is resolved against the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.ToggleDelay == "" {
		cfg.ToggleDelay = DefaultToggleDelay
	}
	if _, err := cfg.ToggleDelayDuration(); err != nil {
		return cfg, err
	}
	return cfg.resolve(path), nil
}

// ToggleDelayDuration parses toggle_delay. Zero disables the delay.
func (c Config) ToggleDelayDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.ToggleDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid toggle_delay %q: %w", c.ToggleDelay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid toggle_delay %q: negative", c.ToggleDelay)
	}
	return d, nil
}

func (c Config) resolve(configPath string) Config {
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(filepath.Dir(configPath), c.DBPath)
	}
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:      DefaultDBName,
		Locale:      DefaultLocale,
		ToggleDelay: DefaultToggleDelay,
		Log: LogConfig{
			Development: false,
			Level:       "warn",
		},
	}
}
