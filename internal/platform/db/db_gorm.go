package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tender_backend/internal/platform/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	retryInterval = 3 * time.Second
)

// Config holds database connection settings.
type Config struct {
	Driver string
	// URL takes precedence over the discrete fields when set.
	URL      string
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string

	ConnectTimeout time.Duration
	RunMigrations  bool
}

// LoadConfigFromEnv reads DATABASE_* and DB_* variables.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:         strings.ToLower(config.String("DATABASE_DRIVER", DriverPostgres)),
		URL:            config.String("DATABASE_URL", ""),
		User:           config.String("DB_USER", ""),
		Password:       config.String("DB_PASSWORD", ""),
		Name:           config.String("DB_NAME", ""),
		Host:           config.String("DB_HOST", "localhost"),
		Port:           config.String("DB_PORT", "5432"),
		SSLMode:        config.String("DB_SSLMODE", "disable"),
		ConnectTimeout: config.Duration("DB_CONNECT_TIMEOUT", 60*time.Second),
		RunMigrations:  config.Bool("RUN_MIGRATIONS", false),
	}
}

// BuildDSN returns the connection string for cfg.
// For sqlite the URL (or Name) is used as the file path, defaulting to tender.db.
func BuildDSN(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	if cfg.Driver == DriverSQLite {
		if cfg.Name != "" {
			return cfg.Name
		}
		return "tender.db"
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode)
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// OpenerFor returns the Opener for the configured driver.
func OpenerFor(driver string) (Opener, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
	switch driver {
	case DriverPostgres, "":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, nil
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gcfg)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Open connects using cfg.
func Open(cfg Config) (*gorm.DB, error) {
	opener, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// SQLite allows a single writer; serialising connections avoids SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the tables for models.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
