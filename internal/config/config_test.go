package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != "file" {
		t.Errorf("Store = %q, want default %q", cfg.Store, "file")
	}
	if cfg.Server.Addr != "localhost:8473" {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
store = "redis"

[redis]
addr = "redis.internal:6380"
db = 2

[export]
key = "hexenwald"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != "redis" {
		t.Errorf("Store = %q, want redis", cfg.Store)
	}
	if cfg.Redis.Addr != "redis.internal:6380" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v, want overridden values", cfg.Redis)
	}
	if cfg.Export.Key != "hexenwald" {
		t.Errorf("Export.Key = %q", cfg.Export.Key)
	}
	// Untouched sections keep their defaults.
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("Mongo.URI = %q, want default", cfg.Mongo.URI)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`storee = "file"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown keys")
	}
}

func TestPathHonorsEnvOverride(t *testing.T) {
	t.Setenv("STORYLOOM_CONFIG", "/tmp/custom.toml")
	p, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if p != "/tmp/custom.toml" {
		t.Errorf("Path = %q, want env override", p)
	}
}
