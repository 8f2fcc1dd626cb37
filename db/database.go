package db

import (
	"fmt"
	"net/url"
	"strings"

	"law_office_app_go/config"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize sets up the database connection for the configured driver
func Initialize(cfg *config.Config) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}

	// Determine log level based on environment
	logLevel := logger.Info
	if cfg.Environment == "production" {
		logLevel = logger.Warn
	}

	DB, err = gorm.Open(dialector, GormConfig(logLevel))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DBDriver == config.DBDriverSQLite || cfg.DBDriver == "" {
		// mattn/go-sqlite3 ignores foreign keys unless asked per connection
		if err := DB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	zap.L().Info("Database connection established", zap.String("driver", driverName(cfg)))
	return nil
}

// Dialector picks the gorm dialector for the configured driver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch driverName(cfg) {
	case config.DBDriverSQLite:
		// WAL mode for better concurrency support
		return OpenSQLite(withQuery(cfg.DBPath, "_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")), nil
	case config.DBDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		return postgres.Open(cfg.DatabaseURL), nil
	case config.DBDriverLibSQL:
		if cfg.TursoDatabaseURL == "" {
			return nil, fmt.Errorf("TURSO_DATABASE_URL is required for the libsql driver")
		}
		dsn := cfg.TursoDatabaseURL
		if cfg.TursoAuthToken != "" {
			dsn = withQuery(dsn, "authToken="+url.QueryEscape(cfg.TursoAuthToken))
		}
		return sqlite.Dialector{DriverName: "libsql", DSN: dsn}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func driverName(cfg *config.Config) string {
	if cfg.DBDriver == "" {
		return config.DBDriverSQLite
	}
	return cfg.DBDriver
}

func withQuery(dsn, query string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + query
	}
	return dsn + "?" + query
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	zap.L().Info("Database migrations completed", zap.Int("models", len(models)))
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
