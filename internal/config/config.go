package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr   = ":6379"
	DefaultShards = 16
)

// Config holds the server settings. Values come from defaults, then the
// config file, then DLIST_* environment variables, then command line flags.
type Config struct {
	Addr string `yaml:"addr" json:"addr"`
	// Shards is the number of keyspace partitions, each behind its own lock.
	Shards int `yaml:"shards" json:"shards"`
	// HashSeed is a 32 character hex string keying the shard hash. Empty
	// means a random seed per process.
	HashSeed string `yaml:"hash_seed" json:"hash_seed"`
	Verbose  bool   `yaml:"verbose" json:"verbose"`
}

func Default() *Config {
	return &Config{
		Addr:   DefaultAddr,
		Shards: DefaultShards,
	}
}

// Load reads filePath (YAML or JSON, by extension) over the defaults. An
// empty filePath only applies the environment.
func Load(filePath string) (*Config, error) {
	config := Default()

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		ext := strings.ToLower(filepath.Ext(filePath))
		switch ext {
		case ".json":
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse JSON config: %w", err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		default:
			return nil, fmt.Errorf("unsupported config file format: %s", ext)
		}
	}

	config.LoadFromEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

func (c *Config) LoadFromEnv() {
	if v := os.Getenv("DLIST_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("DLIST_HASH_SEED"); v != "" {
		c.HashSeed = v
	}
	if v := os.Getenv("DLIST_VERBOSE"); v != "" {
		c.Verbose = v == "1" || strings.EqualFold(v, "true")
	}
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.Shards < 1 {
		return fmt.Errorf("shards must be positive, got %d", c.Shards)
	}
	if _, err := c.Seed(); err != nil {
		return err
	}
	return nil
}

// Seed decodes HashSeed. It returns nil when no seed is configured.
func (c *Config) Seed() ([]byte, error) {
	if c.HashSeed == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(c.HashSeed)
	if err != nil {
		return nil, fmt.Errorf("hash_seed: %w", err)
	}
	if len(b) != 16 {
		return nil, fmt.Errorf("hash_seed must be 16 bytes, got %d", len(b))
	}
	return b, nil
}
