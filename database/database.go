package database

import (
	"context"
	"fmt"
	"strings"

	"erms/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database named by dsn. PostgreSQL URLs and key/value DSNs
// use the postgres driver; "sqlite:" prefixed DSNs, "file:" URIs, ":memory:" and
// *.db paths use SQLite.
func Open(dsn string, verbose bool) (*gorm.DB, error) {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}

	dialector := dialectorFor(dsn)
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialector.Name(), err)
	}
	return db, nil
}

func dialectorFor(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//"))
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:", strings.HasSuffix(dsn, ".db"):
		return sqlite.Open(dsn)
	default:
		return postgres.Open(dsn)
	}
}

// Migrate creates or updates the users, projects and assignments tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Project{}, &models.Assignment{})
}

// SeedManager inserts user unless an account with the same email exists.
// It reports whether a row was created.
func SeedManager(ctx context.Context, db *gorm.DB, log *zap.Logger, user models.User) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		log.Info("manager already exists, skipping seed", zap.String("email", user.Email))
		return false, nil
	}

	user.Role = models.RoleManager
	if user.AvailablePercentage == 0 {
		user.AvailablePercentage = models.DefaultAvailablePercentage
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return false, err
	}

	log.Info("manager account created", zap.String("email", user.Email), zap.Uint("id", user.ID))
	return true, nil
}

// Ping checks that the underlying connection pool can reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
