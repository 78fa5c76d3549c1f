package persistence

import (
	"fmt"
	"time"

	"github.com/chantier/backend/internal/domain/budget"
	"github.com/chantier/backend/internal/domain/catalog"
	"github.com/chantier/backend/internal/domain/journal"
	"github.com/chantier/backend/internal/domain/quote"
	"github.com/chantier/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm connection pool shared by the repositories.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a connection with SQL logging off. Tools that do
// not care about log routing use this.
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return open(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithCustomLogger opens a connection routing gorm's output
// through the given logger, in practice the zap adapter.
func NewDatabaseWithCustomLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	return open(cfg, gormLogger)
}

func open(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
		// Repositories open transactions explicitly where they need
		// them; the implicit per-write transaction only adds latency.
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// AutoMigrate creates or updates the schema for every persisted model.
// The SQL migrations under migrations/ are the canonical schema; this
// exists so tests can set up an in-memory database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Article{},
		&quote.Quote{},
		&quote.QuoteLot{},
		&quote.QuoteLine{},
		&quote.CostEntry{},
		&budget.Budget{},
		&budget.CostLine{},
		&budget.Amendment{},
		&budget.Alert{},
		&budget.Allocation{},
		&journal.Entry{},
	)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping reports whether the connection is alive. The health endpoint
// relies on it.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}
