package tenant

import (
	"fmt"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Psychotichub/panel/pkg/config"
	"github.com/Psychotichub/panel/pkg/database"
)

// openTestDB returns a fresh in-memory store with the full schema and
// identity indexes applied. Each call gets its own database.
func openTestDB(c *qt.C) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	c.Assert(err, qt.IsNil)

	sqlDB, err := db.DB()
	c.Assert(err, qt.IsNil)
	// One connection keeps the named in-memory database alive and
	// shared for the whole test.
	sqlDB.SetMaxOpenConns(1)

	c.Assert(database.Migrate(db), qt.IsNil)
	return db
}

func testTenantConfig() config.TenantConfig {
	return config.TenantConfig{
		ConnectRetries:   1,
		ConnectBackoff:   time.Millisecond,
		ProvisionTimeout: 5 * time.Second,
	}
}
