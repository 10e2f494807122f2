package services

import (
	"testing"

	"github.com/coursekart/api/database"
	"github.com/coursekart/api/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema,
// including the partial unique indexes that back the pending/active
// invariants.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A second pooled connection would get its own empty :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Coupon{},
		&model.ManualPayment{},
		&model.Enrollment{},
		&model.PaymentReconciliation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	if err := database.CreatePartialIndexes(db); err != nil {
		t.Fatalf("failed to create partial indexes: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email string, admin bool) model.User {
	t.Helper()
	user := model.User{Name: name, Email: email, IsAdmin: admin}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createCourse(t *testing.T, db *gorm.DB, title string, price float64) model.Course {
	t.Helper()
	course := model.Course{Title: title, Price: price, Thumbnail: "thumbnails/test.png"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("failed to create course: %v", err)
	}
	return course
}

func createCoupon(t *testing.T, db *gorm.DB, coupon model.Coupon) model.Coupon {
	t.Helper()
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("failed to create coupon: %v", err)
	}
	return coupon
}
