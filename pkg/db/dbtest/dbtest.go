// Package dbtest opens isolated in-memory sqlite databases carrying the
// production schema.
package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
)

// Open returns a client over a fresh database named after a random uuid so
// parallel tests never share state.
func Open(t testing.TB) *db.Client {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	client := db.FromConn(conn)
	if err := client.ApplySQLiteSchema(context.Background()); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return client
}

// SeedCar inserts a minimal available car.
func SeedCar(t testing.TB, client *db.Client, name string) models.Car {
	t.Helper()

	car := models.Car{
		Name:          name,
		Make:          "Pagani",
		Model:         "Utopia",
		Year:          2024,
		Price:         decimal.RequireFromString("3100000"),
		PriceCurrency: "USD",
		Status:        enums.CarStatusAvailable,
		MileageUnit:   "miles",
		Slug:          "seed-" + uuid.NewString(),
		MetaTitle:     name + " - 2024 | Revura",
	}
	if err := client.DB().Create(&car).Error; err != nil {
		t.Fatalf("seed car: %v", err)
	}
	return car
}

// SeedImage inserts an image row with the given type and order.
func SeedImage(t testing.TB, client *db.Client, carID uuid.UUID, imageType enums.ImageType, sortOrder int) models.CarImage {
	t.Helper()

	img := models.CarImage{
		CarID:     carID,
		ImageURL:  "https://cdn.example.com/uploads/" + uuid.NewString() + ".jpg",
		ImageType: imageType,
		SortOrder: sortOrder,
	}
	if err := client.DB().Create(&img).Error; err != nil {
		t.Fatalf("seed image: %v", err)
	}
	return img
}

// SeedProfile inserts a user_profiles row.
func SeedProfile(t testing.TB, client *db.Client, role enums.ProfileRole) uuid.UUID {
	t.Helper()

	id := uuid.New()
	if err := client.DB().Create(&models.UserProfile{ID: id, Role: role}).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return id
}
