// Package config loads switcher configuration from an optional YAML file,
// an optional .env file, and CODEX_ACCOUNTS_* environment variables, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all codex-accounts configuration.
type Config struct {
	// LiveAuthPath is the credential file the codex CLI reads.
	LiveAuthPath string `yaml:"live_auth_path"`
	// DataDir holds the saved <name>.auth.json profiles.
	DataDir string `yaml:"data_dir"`
	// StatePath is the current/previous session record.
	StatePath string `yaml:"state_path"`
	// CachePath is the SQLite usage cache database.
	CachePath string `yaml:"cache_path"`

	// BaseURL is the usage endpoint base; the usage path is derived from it.
	BaseURL string `yaml:"base_url"`

	Usage     UsageConfig     `yaml:"usage"`
	Selection SelectionConfig `yaml:"selection"`
}

// UsageConfig controls usage fetching and caching.
type UsageConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// SelectionConfig controls the auto-switch heuristic.
type SelectionConfig struct {
	// Heuristic names a registered selection strategy; empty means the
	// default.
	Heuristic          string `yaml:"heuristic"`
	RollingUnusablePct int    `yaml:"rolling_unusable_pct"`
	UnknownResetTTRSec int64  `yaml:"unknown_reset_ttr_sec"`
}

// DefaultPath returns the conventional config file location. The file is
// optional.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".codex-switch", "config.yaml")
}

// Default returns a Config with sensible defaults rooted in the user's home
// directory.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		LiveAuthPath: filepath.Join(home, ".codex", "auth.json"),
		DataDir:      filepath.Join(home, "codex-data"),
		StatePath:    filepath.Join(home, ".codex-switch", "state.json"),
		CachePath:    filepath.Join(home, ".codex-switch", "usage-cache.db"),
		BaseURL:      "https://chatgpt.com/backend-api",
		Usage: UsageConfig{
			Concurrency: 6,
			Timeout:     10 * time.Second,
			CacheTTL:    20 * time.Second,
		},
		Selection: SelectionConfig{
			RollingUnusablePct: 5,
			UnknownResetTTRSec: 315360000,
		},
	}
}

// Load builds the effective configuration. A missing YAML file is not an
// error; a present but invalid one is. Environment variables override file
// values.
func Load(path string) (*Config, error) {
	// Missing .env files are fine.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else {
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CODEX_ACCOUNTS_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("CODEX_ACCOUNTS_HEURISTIC"); v != "" {
		c.Selection.Heuristic = v
	}
	if err := envInt("CODEX_ACCOUNTS_ROLLING_UNUSABLE_PCT", &c.Selection.RollingUnusablePct); err != nil {
		return err
	}
	if err := envInt64("CODEX_ACCOUNTS_UNKNOWN_RESET_TTR_SEC", &c.Selection.UnknownResetTTRSec); err != nil {
		return err
	}
	if err := envInt("CODEX_ACCOUNTS_USAGE_CONCURRENCY", &c.Usage.Concurrency); err != nil {
		return err
	}
	if err := envSeconds("CODEX_ACCOUNTS_USAGE_CACHE_TTL_SEC", &c.Usage.CacheTTL); err != nil {
		return err
	}
	if err := envSeconds("CODEX_ACCOUNTS_USAGE_TIMEOUT_SEC", &c.Usage.Timeout); err != nil {
		return err
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = n
	return nil
}

func envInt64(name string, dst *int64) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = n
	return nil
}

func envSeconds(name string, dst *time.Duration) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = time.Duration(n) * time.Second
	return nil
}
