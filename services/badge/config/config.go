package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// RedisConfig holds the connection parameters of the redis cache backend
type RedisConfig struct {
	Address  string `toml:"Address"`
	Password string `toml:"Password"`
	DB       int    `toml:"DB"`
}

// Config maps to the config.toml file for the badge service
type Config struct {
	ListenAddress           string      `toml:"ListenAddress"`
	BadgeLabel              string      `toml:"BadgeLabel"`
	AnalyticsBaseURL        string      `toml:"AnalyticsBaseURL"`
	BackendTimeoutInSeconds uint32      `toml:"BackendTimeoutInSeconds"`
	BadgeCacheTTLInSeconds  uint32      `toml:"BadgeCacheTTLInSeconds"`
	ReportCacheTTLInSeconds uint32      `toml:"ReportCacheTTLInSeconds"`
	CacheBackend            string      `toml:"CacheBackend"`
	SQLiteDir               string      `toml:"SQLiteDir"`
	Redis                   RedisConfig `toml:"Redis"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
