package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the web server configuration.
type Config struct {
	Addr              string `yaml:"addr"`
	Bucket            string `yaml:"bucket"`
	PresignTTLSeconds int    `yaml:"presign_ttl_seconds"`
}

// PresignTTL returns the presigned url lifetime as a duration.
func (c *Config) PresignTTL() time.Duration {
	return time.Duration(c.PresignTTLSeconds) * time.Second
}

// Load reads the configuration from a yaml file if path is non-empty, then
// applies environment overrides (GALLERY_ADDR, GALLERY_BUCKET) and defaults.
// Bucket is the only required value.
func Load(path string) (*Config, error) {

	cfg := &Config{
		Addr:              ":3000",
		PresignTTLSeconds: int((15 * time.Minute).Seconds()),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %v", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %v", path, err)
		}
	}

	if addr := os.Getenv("GALLERY_ADDR"); addr != "" {
		cfg.Addr = addr
	}

	if bucket := os.Getenv("GALLERY_BUCKET"); bucket != "" {
		cfg.Bucket = bucket
	}

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket must be set via config file or GALLERY_BUCKET")
	}

	return cfg, nil
}
