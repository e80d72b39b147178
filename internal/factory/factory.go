package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/coder/quartz"

	"github.com/mcoot/superbowl-squares/internal/dependencies/random"
	"github.com/mcoot/superbowl-squares/internal/services/board"
	"github.com/mcoot/superbowl-squares/internal/services/winners"
	"github.com/mcoot/superbowl-squares/internal/storage"
	"github.com/mcoot/superbowl-squares/internal/storage/memory"
	mysqlstorage "github.com/mcoot/superbowl-squares/internal/storage/mysql"
	redisstorage "github.com/mcoot/superbowl-squares/internal/storage/redis"
	"github.com/mcoot/superbowl-squares/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeMySQL  = "mysql"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  quartz.Clock
	Random random.Random

	// Services
	BoardController *board.Controller
	WinnerService   *winners.Service
	HubManager      *sse.HubManager

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "mysql")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// MySQLConfig holds MySQL connection settings (required if StorageType is "mysql")
	MySQLConfig *mysqlstorage.Config
	// WinnerConcurrency bounds parallel board updates in the winner job
	// If zero, defaults to winners.DefaultConcurrency
	WinnerConcurrency int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(store, quartz.NewReal(), random.New(), logger, cfg.WinnerConcurrency)
	app.closer = closer
	return app, nil
}

func newStorage(cfg Config) (storage.Storage, io.Closer, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case StorageTypeMySQL:
		if cfg.MySQLConfig == nil {
			return nil, nil, errors.New("MySQLConfig required when StorageType is mysql")
		}
		store, err := mysqlstorage.Open(*cfg.MySQLConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'mysql'")
	}
}

// Close releases the storage connection, if any
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk quartz.Clock, rnd random.Random, logger *slog.Logger, concurrency int) *App {
	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		BoardController: board.NewController(store, rnd, clk, logger),
		WinnerService:   winners.New(store, clk, logger, concurrency),
		HubManager:      sse.NewHubManager(logger),
	}
}
