package db

import (
	"fmt"
	"log"

	"civic_app_go/config"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the database: Turso (libsql) when TURSO_DATABASE_URL is set,
// a local SQLite file in WAL mode otherwise
func Initialize(cfg *config.Config) (*gorm.DB, error) {
	// Determine log level based on environment
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	if cfg.TursoDatabaseURL != "" {
		conn, err := gorm.Open(sqlite.New(sqlite.Config{
			DriverName: "libsql",
			DSN:        TursoDSN(cfg.TursoDatabaseURL, cfg.TursoAuthToken),
		}), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Turso database: %w", err)
		}
		log.Println("Database connection established (Turso)")
		return conn, nil
	}

	// Enable WAL mode for better concurrency support
	conn, err := gorm.Open(sqlite.Open(cfg.DBPath+"?_journal_mode=WAL"), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established (WAL mode enabled)")
	return conn, nil
}

// TursoDSN appends the auth token to a libsql URL
func TursoDSN(url, authToken string) string {
	if authToken == "" {
		return url
	}
	return url + "?authToken=" + authToken
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(conn *gorm.DB, models ...interface{}) error {
	if conn == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := conn.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close(conn *gorm.DB) error {
	if conn == nil {
		return nil
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
