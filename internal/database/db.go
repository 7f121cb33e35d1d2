package database

import (
	"fmt"

	"productattrs/internal/config"
	"productattrs/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every entity owned by this service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.AttributeCategory{},
		&model.AttributeValue{},
		&model.CategoryAssignment{},
		&model.AttributeAssignment{},
		&model.StockItem{},
		&model.Price{},
		&model.PricingRule{},
		&model.AuditLog{},
	}
}

// Dialector picks the gorm driver for the configured DB_DRIVER.
func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open connects with duplicate-key and not-found errors translated to gorm sentinels.
// Statement logging goes through logger at warn level.
func Open(dialector gorm.Dialector, logger zerolog.Logger) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(logger, gormlogger.Warn),
	})
}

// NewConnection initializes a new connection pool using GORM and migrates the schema.
func NewConnection(cfg config.DBConfig, logger zerolog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := Open(dialector, logger)
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	if err := db.AutoMigrate(Models()...); err != nil {
		logger.Warn().Err(err).Msg("failed to auto-migrate models")
	}

	return db, nil
}
