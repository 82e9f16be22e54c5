// Package config reads the editor's process configuration from CONQUEST_*
// environment variables
package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

// Snapshot backends
const (
	BackendNone   = "none"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// CampaignDirName is the campaign working directory inside the data dir
const CampaignDirName = "campaign"

const defaultSnapshotDB = ".kbsnapshot.db"

// Config is the process configuration. Command line flags are applied on top
// of the parsed environment before Validate runs.
type Config struct {
	DataDir  string `env:"CONQUEST_DATA_DIR"`
	SaveFile string `env:"CONQUEST_SAVE_FILE"`
	Rules    string `env:"CONQUEST_RULES"`
	LogLevel string `env:"CONQUEST_LOG_LEVEL" envDefault:"info"`

	SnapshotBackend string        `env:"CONQUEST_SNAPSHOT_BACKEND" envDefault:"none"`
	SnapshotTTL     time.Duration `env:"CONQUEST_SNAPSHOT_TTL" envDefault:"24h"`
	RedisAddr       string        `env:"CONQUEST_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string        `env:"CONQUEST_REDIS_PASSWORD"`
	RedisDB         int           `env:"CONQUEST_REDIS_DB" envDefault:"0"`
	// SQLitePath defaults to a file inside the data dir
	SQLitePath string `env:"CONQUEST_SQLITE_PATH"`

	MetricsTextfile string `env:"CONQUEST_METRICS_TEXTFILE"`
}

// Load parses the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	return cfg, nil
}

// Validate checks the merged configuration
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("data_dir", c.DataDir, vb)
	errors.ValidateEnum("snapshot_backend", c.SnapshotBackend,
		[]string{BackendNone, BackendRedis, BackendSQLite}, vb)
	if c.SnapshotBackend == BackendRedis {
		errors.ValidateRequired("redis_addr", c.RedisAddr, vb)
	}
	if c.SnapshotTTL < 0 {
		vb.InvalidField("snapshot_ttl", "cannot be negative")
	}
	if c.RedisDB < 0 {
		vb.InvalidField("redis_db", "cannot be negative")
	}
	if _, err := c.Level(); err != nil {
		vb.InvalidField("log_level", err.Error())
	}

	return vb.Build()
}

// Level maps LogLevel onto slog
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// CampaignDir is the campaign working directory
func (c *Config) CampaignDir() string {
	return filepath.Join(c.DataDir, CampaignDirName)
}

// SnapshotDB is the sqlite snapshot file
func (c *Config) SnapshotDB() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.DataDir, defaultSnapshotDB)
}
