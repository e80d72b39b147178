package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	mysqlstorage "github.com/mcoot/superbowl-squares/internal/storage/mysql"
	redisstorage "github.com/mcoot/superbowl-squares/internal/storage/redis"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMySQL  = "mysql"
)

// DefaultPort is used when PORT is unset
const DefaultPort = 8080

// Config holds server configuration read from the environment
type Config struct {
	Host        string
	Port        int
	StorageType string
	LogLevel    slog.Level
	StaticDir   string

	// Redis
	RedisURL string
	BoardTTL time.Duration

	// MySQL
	MySQLDSN      string
	MySQLHost     string
	MySQLPort     string
	MySQLUser     string
	MySQLPassword string
	MySQLDatabase string
}

// Load reads an optional .env file into the process environment and parses the result.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup parses configuration from a lookup function such as os.LookupEnv
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		Host:          get("HOST", ""),
		StorageType:   strings.ToLower(get("STORAGE_TYPE", StorageMemory)),
		StaticDir:     get("STATIC_DIR", ""),
		RedisURL:      get("REDIS_URL", ""),
		MySQLDSN:      get("MYSQL_DSN", ""),
		MySQLHost:     get("MYSQL_HOST", ""),
		MySQLPort:     get("MYSQL_PORT", "3306"),
		MySQLUser:     get("MYSQL_USER", ""),
		MySQLPassword: get("MYSQL_PASSWORD", ""),
		MySQLDatabase: get("MYSQL_DATABASE", ""),
	}

	var errs []error

	port, err := strconv.Atoi(get("PORT", strconv.Itoa(DefaultPort)))
	if err != nil || port < 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a port number"))
	}
	cfg.Port = port

	cfg.BoardTTL = redisstorage.DefaultConfig().BoardTTL
	if raw := get("BOARD_TTL", ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl < 0 {
			errs = append(errs, fmt.Errorf("BOARD_TTL must be a non-negative duration"))
		}
		cfg.BoardTTL = ttl
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing settings for the selected storage backend
func (c *Config) Validate() error {
	var errs []error
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when STORAGE_TYPE is redis"))
		}
	case StorageMySQL:
		if c.MySQLDSN == "" {
			if c.MySQLHost == "" {
				errs = append(errs, errors.New("MYSQL_HOST or MYSQL_DSN is required when STORAGE_TYPE is mysql"))
			}
			if c.MySQLUser == "" {
				errs = append(errs, errors.New("MYSQL_USER or MYSQL_DSN is required when STORAGE_TYPE is mysql"))
			}
			if c.MySQLDatabase == "" {
				errs = append(errs, errors.New("MYSQL_DATABASE or MYSQL_DSN is required when STORAGE_TYPE is mysql"))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE %q must be memory, redis or mysql", c.StorageType))
	}
	return errors.Join(errs...)
}

// Addr returns the host:port listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig returns the redis storage settings
func (c *Config) RedisConfig() redisstorage.Config {
	rc := redisstorage.DefaultConfig()
	rc.URL = c.RedisURL
	rc.BoardTTL = c.BoardTTL
	return rc
}

// MySQLConfig returns the mysql storage settings
func (c *Config) MySQLConfig() mysqlstorage.Config {
	mc := mysqlstorage.DefaultConfig()
	mc.DSN = c.MySQLDSN
	if c.MySQLHost != "" {
		mc.Host = c.MySQLHost
	}
	mc.Port = c.MySQLPort
	mc.User = c.MySQLUser
	mc.Password = c.MySQLPassword
	mc.Database = c.MySQLDatabase
	return mc
}
