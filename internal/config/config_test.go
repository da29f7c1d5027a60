package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizedDefaults(t *testing.T) {
	cfg := Config{}.Normalized()
	if cfg.Addr != defaultAddr {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.TickRate != defaultTickRate {
		t.Fatalf("tickRate = %d", cfg.TickRate)
	}
	if cfg.RoomCount != defaultRoomCount {
		t.Fatalf("roomCount = %d", cfg.RoomCount)
	}
	if cfg.Seed != defaultSeed {
		t.Fatalf("seed = %q", cfg.Seed)
	}
	if len(cfg.LogSinks) != 1 || cfg.LogSinks[0] != "console" {
		t.Fatalf("logSinks = %v", cfg.LogSinks)
	}
}

func TestNormalizedKeepsExplicitValues(t *testing.T) {
	cfg := Config{Addr: ":9000", TickRate: 30, RoomCount: 12, Seed: " caverns "}.Normalized()
	if cfg.Addr != ":9000" || cfg.TickRate != 30 || cfg.RoomCount != 12 {
		t.Fatalf("explicit values lost: %+v", cfg)
	}
	if cfg.Seed != "caverns" {
		t.Fatalf("seed not trimmed: %q", cfg.Seed)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TickRate != defaultTickRate {
		t.Fatalf("tickRate = %d", cfg.TickRate)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "addr: \":7777\"\ntickRate: 20\nroomCount: 6\nseed: catacomb\nlogSinks: [console, json]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DELVE_SEED", "override")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7777" || cfg.TickRate != 20 || cfg.RoomCount != 6 {
		t.Fatalf("yaml values lost: %+v", cfg)
	}
	if cfg.Seed != "override" {
		t.Fatalf("env override lost: %q", cfg.Seed)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Fatalf("gemini key = %q", cfg.GeminiAPIKey)
	}
	if len(cfg.LogSinks) != 2 {
		t.Fatalf("logSinks = %v", cfg.LogSinks)
	}
}

func TestLoadMalformedYAMLFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
