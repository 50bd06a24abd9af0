package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Psychotichub/panel/internal/model"
	"github.com/Psychotichub/panel/pkg/config"
)

var DB *gorm.DB

// Initialize opens the database connection, configures pooling, runs
// model migrations and creates the identity uniqueness indexes. At
// process bootstrap a failure here is fatal to the caller: no tenant
// lookups are possible without the store.
func Initialize(cfg *config.DBConfig) error {
	var err error

	logLevel := cfg.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}

	// PreferSimpleProtocol disables implicit prepared statement usage;
	// TranslateError maps driver unique violations to
	// gorm.ErrDuplicatedKey so the stores see one duplicate error shape.
	pgConfig := postgres.Config{
		DSN:                  cfg.GetDSN(),
		PreferSimpleProtocol: true,
	}

	DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return err
	}

	// Configure connection pool
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Failed to get database connection: %v", err)
		return err
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	fmt.Println("Database connected and migrated successfully")
	return nil
}

// Migrate creates or updates the table structure for all models and
// the identity uniqueness indexes. Tenant entity constraints are not
// created here; those are provisioned per tenant by the registry.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Panel{},
		&model.Material{},
		&model.DailyReport{},
		&model.TotalPrice{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return EnsureIdentityIndexes(db)
}

// EnsureIdentityIndexes creates the two partial unique indexes backing
// the dual account uniqueness regime. Tenant users are unique per
// (username, site, company); manager/admin usernames are unique over
// the global subset of accounts with those roles. Creation is
// idempotent.
func EnsureIdentityIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_tenant_username
			ON users (username, site, company) WHERE role = 'user'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_global_username
			ON users (username) WHERE role IN ('manager', 'admin')`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create identity index: %w", err)
		}
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
