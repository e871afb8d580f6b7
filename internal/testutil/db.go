package testutil

import (
	"fmt"

	"github.com/frahmantamala/geofence-security/internal/core/datamodel"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an isolated in-memory SQLite database with every table
// migrated and foreign keys enforced, so ON DELETE rules behave as they do
// in postgres. Each call gets its own named database so connections in the
// pool share state while separate tests do not.
func NewTestDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(datamodel.All()...); err != nil {
		return nil, err
	}
	return db, nil
}
