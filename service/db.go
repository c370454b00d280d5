package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/elayeboussama/University-Order-Management-System/config"
	"github.com/elayeboussama/University-Order-Management-System/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDatabase connects to Postgres and runs migrations.
func OpenDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.Port,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the orders, signatures and profiles tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Profile{},
		&model.Order{},
		&model.Signature{},
	)
}

// SeedProfiles provisions configured users that do not exist yet. Existing
// profiles are left untouched.
func SeedProfiles(db *gorm.DB, users []config.SeedUser) error {
	for _, u := range users {
		var count int64
		if err := db.Model(&model.Profile{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check profile %s: %w", u.Email, err)
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
		}

		profile := &model.Profile{
			ID:           uuid.New().String(),
			Email:        u.Email,
			FullName:     u.FullName,
			Role:         u.Role,
			Department:   u.Department,
			PasswordHash: string(hash),
		}
		if err := db.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile %s: %w", u.Email, err)
		}

		slog.Info("seeded profile", "email", u.Email, "role", u.Role)
	}
	return nil
}
