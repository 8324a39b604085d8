// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zfogg/curlmap/backend/internal/database"
	"github.com/zfogg/curlmap/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory sqlite database. The pool is pinned to
// one connection because every sqlite :memory: connection is its own database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.MigrateDB(db))
	return db
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T { return &v }

// SeedSalon inserts a salon with the given stylists and returns it
func SeedSalon(t *testing.T, db *gorm.DB, id, name string, stylists ...models.Stylist) models.Salon {
	t.Helper()

	salon := models.Salon{
		ID:            id,
		Name:          name,
		StreetAddress: "100 Main St",
		City:          "Rochester",
		State:         "NY",
		ZipCode:       "14604",
		FullAddress:   "100 Main St, Rochester, NY 14604",
		Phone:         Ptr("585-555-0100"),
	}
	require.NoError(t, db.Create(&salon).Error)

	for i := range stylists {
		stylists[i].SalonID = id
		require.NoError(t, db.Create(&stylists[i]).Error)
	}
	return salon
}
