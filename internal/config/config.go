package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const DefaultConfigFileName = "config.toml"

// Config is the client configuration, stored as TOML in the data directory
type Config struct {
	ServerURL          string `toml:"server_url"`
	WSURL              string `toml:"ws_url"`
	UTCOffsetHours     int    `toml:"utc_offset_hours"`
	ReconnectDelaySecs int    `toml:"reconnect_delay_secs"`
	DBPath             string `toml:"db_path"`
	LogPath            string `toml:"log_path"`
}

// LoadOrCreate reads the config file at path, writing a default one first if
// it does not exist yet
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.ReconnectDelaySecs <= 0 {
		cfg.ReconnectDelaySecs = 5
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		ServerURL:          "http://localhost:5000",
		WSURL:              "ws://localhost:5000/socket",
		UTCOffsetHours:     8,
		ReconnectDelaySecs: 5,
	}
}

// DataDir returns the per-user data directory, creating it if needed
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "taskdeck")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}
	return appDir, nil
}
