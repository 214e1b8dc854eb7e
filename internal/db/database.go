package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver string
	// Path is the sqlite database file.
	Path string
	// DSN is the postgres connection string.
	DSN    string
	Logger *slog.Logger
}

// Open connects to the configured database and applies pending migrations.
func Open(options Options) (*gorm.DB, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	config := &gorm.Config{
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}

	var (
		database *gorm.DB
		err      error
	)
	switch options.Driver {
	case DriverSQLite, "":
		database, err = openSQLite(options.Path, config)
	case DriverPostgres:
		database, err = gorm.Open(postgres.Open(options.DSN), config)
		if err != nil {
			err = fmt.Errorf("open postgres: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", options.Driver)
	}
	if err != nil {
		return nil, err
	}

	dialect := options.Driver
	if dialect == "" {
		dialect = DriverSQLite
	}
	if err := applyEmbeddedMigrations(database, dialect); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}

	logger.Info("database ready", "driver", dialect)
	return database, nil
}

func OpenSQLite(dbPath string) (*gorm.DB, error) {
	return Open(Options{Driver: DriverSQLite, Path: dbPath})
}

func openSQLite(dbPath string, config *gorm.Config) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", dbPath)
	database, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// one shared connection; statements are serialized per request
	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("open sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return database, nil
}
