package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coursekart/api/model"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedCourses(); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}

	if err := s.SeedCoupons(); err != nil {
		return fmt.Errorf("failed to seed coupons: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user. The identity provider owns
// credentials; this row only carries the admin flag and display fields.
func (s *Seeder) SeedAdminUser() error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@coursekart.in"
	}

	var count int64
	if err := s.db.Model(&model.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping")
		return nil
	}

	admin := model.User{
		Email:   adminEmail,
		Name:    "CourseKart Admin",
		IsAdmin: true,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s (id=%d)", admin.Email, admin.ID)
	return nil
}

// SeedCourses creates a couple of demo courses when the table is empty.
func (s *Seeder) SeedCourses() error {
	var count int64
	if err := s.db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Courses already exist, skipping")
		return nil
	}

	courses := []model.Course{
		{Title: "Mastering System Design", Price: 4999, Thumbnail: "thumbnails/system-design.png"},
		{Title: "Go for Backend Engineers", Price: 2999, Thumbnail: "thumbnails/go-backend.png"},
		{Title: "DSA Crash Course", Price: 1000, Thumbnail: "thumbnails/dsa.png"},
	}

	if err := s.db.Create(&courses).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d courses", len(courses))
	return nil
}

// SeedCoupons creates demo coupons covering the interesting validity cases.
func (s *Seeder) SeedCoupons() error {
	var count int64
	if err := s.db.Model(&model.Coupon{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Coupons already exist, skipping")
		return nil
	}

	now := time.Now()
	lastWeek := now.AddDate(0, 0, -7)
	yesterday := now.AddDate(0, 0, -1)
	nextMonth := now.AddDate(0, 1, 0)

	coupons := []model.Coupon{
		{Code: "MS10", DiscountPercent: 10, Active: true},
		{Code: "LAUNCH25", DiscountPercent: 25, Active: true, ValidFrom: &lastWeek, ValidTo: &nextMonth},
		{Code: "EXPIRED", DiscountPercent: 50, Active: true, ValidFrom: &lastWeek, ValidTo: &yesterday},
		{Code: "PAUSED15", DiscountPercent: 15, Active: false},
	}

	if err := s.db.Create(&coupons).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d coupons", len(coupons))
	return nil
}
