package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultAddr      = ":8080"
	defaultTickRate  = 15
	defaultRoomCount = 9
	defaultSeed      = "prototype"
)

// Config holds the server configuration. Fields left empty in the YAML file
// fall back to defaults; the Gemini key only ever comes from the environment.
type Config struct {
	Addr         string   `yaml:"addr"`
	TickRate     int      `yaml:"tickRate"`
	RoomCount    int      `yaml:"roomCount"`
	Seed         string   `yaml:"seed"`
	LogSinks     []string `yaml:"logSinks"`
	GeminiAPIKey string   `yaml:"-"`
}

// Load reads the optional YAML file at path and applies environment
// overrides. A missing file is not an error: the server runs on defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to defaults
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if addr := os.Getenv("DELVE_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if seed := os.Getenv("DELVE_SEED"); seed != "" {
		cfg.Seed = seed
	}
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	return cfg.Normalized(), nil
}

// Normalized returns a copy with defaults applied.
func (c Config) Normalized() Config {
	normalized := c
	if strings.TrimSpace(normalized.Addr) == "" {
		normalized.Addr = defaultAddr
	}
	if normalized.TickRate <= 0 {
		normalized.TickRate = defaultTickRate
	}
	if normalized.RoomCount < 1 {
		normalized.RoomCount = defaultRoomCount
	}
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultSeed
	}
	if len(normalized.LogSinks) == 0 {
		normalized.LogSinks = []string{"console"}
	}
	return normalized
}
