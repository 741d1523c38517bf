// Package config loads storyloom's TOML configuration.
//
// The config file lives at ~/.config/storyloom/config.toml (honoring
// XDG_CONFIG_HOME) and can be overridden with the STORYLOOM_CONFIG
// environment variable. A missing file is not an error - all settings
// have working defaults for local, file-backed usage.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all storyloom settings.
type Config struct {
	// Store selects the persistence backend: "file", "redis", "mongo",
	// or "memory".
	Store string `toml:"store"`

	// StoryDir overrides the file store's directory.
	StoryDir string `toml:"story_dir"`

	Server ServerConfig `toml:"server"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Export ExportConfig `toml:"export"`
}

// ServerConfig configures the editor HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// RedisConfig configures the Redis story store.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the MongoDB story store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ExportConfig configures HTML export defaults.
type ExportConfig struct {
	// Key obfuscates exported HTML payloads when non-empty.
	Key string `toml:"key"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Store: "file",
		Server: ServerConfig{
			Addr: "localhost:8473",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "storyloom",
		},
	}
}

// Path returns the config file location: $STORYLOOM_CONFIG if set,
// otherwise ~/.config/storyloom/config.toml.
func Path() (string, error) {
	if p := os.Getenv("STORYLOOM_CONFIG"); p != "" {
		return p, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "storyloom", "config.toml"), nil
}

// Load reads the config file at path, layering it over [Default].
// A missing file returns the defaults without error; a file that exists
// but fails to parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown config keys in %s: %v", path, undecoded)
	}
	return cfg, nil
}
