package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/config"

	"github.com/julianstephens/planner/internal/constants"
)

// Storage backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
)

// Remote kinds
const (
	RemoteNone  = "none"
	RemoteGCS   = "gcs"
	RemoteRedis = "redis"
	RemoteDir   = "dir"
)

type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Remote   RemoteConfig  `yaml:"remote"`
	Sync     SyncConfig    `yaml:"sync"`
	Logging  LoggingConfig `yaml:"logging"`
	Timezone string        `yaml:"timezone"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	// Path is a file path for sqlite, a directory for badger and a
	// credential-free connection string for postgres.
	Path            string `yaml:"path"`
	SerializeWrites bool   `yaml:"serialize_writes"`
}

type RemoteConfig struct {
	Kind     string        `yaml:"kind"`
	DeviceID string        `yaml:"device_id"`
	Timeout  time.Duration `yaml:"timeout"`
	GCS      GCSConfig     `yaml:"gcs"`
	Redis    RedisConfig   `yaml:"redis"`
	Dir      DirConfig     `yaml:"dir"`
}

type GCSConfig struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// RedisConfig holds the connection settings for the redis remote. The
// password is read from the OS keyring.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Username  string `yaml:"username"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type DirConfig struct {
	Path string `yaml:"path"`
}

type SyncConfig struct {
	AutoSyncInterval time.Duration `yaml:"auto_sync_interval"`
	StartupPull      bool          `yaml:"startup_pull"`
}

type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend:         BackendSQLite,
			Path:            constants.DefaultConfigPath,
			SerializeWrites: true,
		},
		Remote: RemoteConfig{
			Kind:    RemoteNone,
			Timeout: constants.DefaultRemoteTimeout,
			GCS:     GCSConfig{Prefix: constants.DefaultRemotePrefix},
			Redis:   RedisConfig{Addr: "localhost:6379", KeyPrefix: constants.AppName},
			Dir:     DirConfig{Path: filepath.Join(constants.DefaultConfigDir, "remote")},
		},
		Sync: SyncConfig{
			AutoSyncInterval: constants.DefaultAutoSyncPeriod,
			StartupPull:      true,
		},
		Timezone: constants.DefaultTimezone,
	}
}

// Load reads the YAML file at path over the defaults, expanding ${VAR}
// references, then applies PLANNER_* environment overrides. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	opts := []config.YAMLOption{
		config.Static(Default()),
		config.Expand(os.LookupEnv),
	}

	if path != "" {
		resolved, err := ExpandPath(path)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(resolved); err == nil {
			opts = append(opts, config.File(resolved))
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create config provider: %w", err)
	}

	var cfg Config
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("failed to populate config: %w", err)
	}

	cfg.overrideFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables if present
func (c *Config) overrideFromEnv() {
	if val := os.Getenv("PLANNER_DB"); val != "" {
		c.Storage.Path = val
		if strings.HasPrefix(val, "postgres://") || strings.HasPrefix(val, "postgresql://") {
			c.Storage.Backend = BackendPostgres
		}
	}
	if val := os.Getenv("PLANNER_STORAGE_BACKEND"); val != "" {
		c.Storage.Backend = val
	}
	if val := os.Getenv("PLANNER_REMOTE_KIND"); val != "" {
		c.Remote.Kind = val
	}
	if val := os.Getenv("PLANNER_DEVICE_ID"); val != "" {
		c.Remote.DeviceID = val
	}
	if val := os.Getenv("PLANNER_GCS_BUCKET"); val != "" {
		c.Remote.GCS.Bucket = val
	}
	if val := os.Getenv("PLANNER_REDIS_ADDR"); val != "" {
		c.Remote.Redis.Addr = val
	}
	if val := os.Getenv("PLANNER_REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			c.Remote.Redis.DB = db
		}
	}
	if val := os.Getenv("PLANNER_LOG_DEBUG"); val != "" {
		if debug, err := strconv.ParseBool(val); err == nil {
			c.Logging.Debug = debug
		}
	}
	if val := os.Getenv("PLANNER_TIMEZONE"); val != "" {
		c.Timezone = val
	}
}

// Validate checks enumerated fields and positive durations.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendPostgres, BackendBadger:
	default:
		return fmt.Errorf("invalid storage backend %q (expected sqlite, postgres or badger)", c.Storage.Backend)
	}

	switch c.Remote.Kind {
	case RemoteNone, "":
		c.Remote.Kind = RemoteNone
	case RemoteGCS:
		if c.Remote.GCS.Bucket == "" {
			return fmt.Errorf("remote.gcs.bucket is required for the gcs remote")
		}
	case RemoteRedis:
		if c.Remote.Redis.Addr == "" {
			return fmt.Errorf("remote.redis.addr is required for the redis remote")
		}
	case RemoteDir:
		if c.Remote.Dir.Path == "" {
			return fmt.Errorf("remote.dir.path is required for the dir remote")
		}
	default:
		return fmt.Errorf("invalid remote kind %q (expected none, gcs, redis or dir)", c.Remote.Kind)
	}

	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote.timeout must be positive")
	}
	if c.Sync.AutoSyncInterval < time.Minute {
		return fmt.Errorf("sync.auto_sync_interval must be at least 1m")
	}
	return nil
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
