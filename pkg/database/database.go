package database

import (
	"audit_survey_backend/internal/config"
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/repository/fixtures"
	"audit_survey_backend/pkg/logger"
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	}
	return nil, fmt.Errorf("database driver %q has no sql dialect", cfg.Driver)
}

func InitDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(d, &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Survey{},
		&model.Question{},
		&model.Assignment{},
		&model.Response{},
	)
	if err != nil {
		return err
	}
	logger.Log.Info("Database migration completed")
	return nil
}

// SeedDemo 空库时写入演示账号与问卷
func SeedDemo(ctx context.Context, db *gorm.DB, ds fixtures.Dataset) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ds.Users).Error; err != nil {
			return err
		}
		if err := tx.Create(&ds.Surveys).Error; err != nil {
			return err
		}
		if err := tx.Create(&ds.Questions).Error; err != nil {
			return err
		}
		if err := tx.Create(&ds.Assignments).Error; err != nil {
			return err
		}
		if len(ds.Responses) > 0 {
			return tx.Create(&ds.Responses).Error
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info("Demo data seeded",
		zap.Int("users", len(ds.Users)),
		zap.Int("surveys", len(ds.Surveys)),
	)
	return nil
}
