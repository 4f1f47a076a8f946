package database

import (
	"fmt"

	"school-quiz-backend/internal/config"
	"school-quiz-backend/internal/logger"
	"school-quiz-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config, log *logger.Logger) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", "err", err)
	}

	log.Info("database connected", "host", cfg.DBHost, "db", cfg.DBName)
	return db
}

func AutoMigrate(db *gorm.DB, log *logger.Logger) {
	err := db.AutoMigrate(
		&models.Grade{},
		&models.User{},
		&models.Unit{},
		&models.Question{},
		&models.Answer{},
		&models.MatchingPair{},
		&models.QuizResult{},
		&models.StudentAnswer{},
		&models.Badge{},
		&models.StudentBadge{},
	)
	if err != nil {
		log.Fatal("failed to auto-migrate", "err", err)
	}
	log.Info("database migrated")
}
