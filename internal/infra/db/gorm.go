package db

import (
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		//unique違反をgorm.ErrDuplicatedKeyに変換
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), gcfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	// webhookは同時に来るのでプールは広めに
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gormDB, nil
}

// Migrate はアプリで使うテーブルを作る。
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.Order{},
		&model.WebhookEvent{},
		&model.AuditLog{},
		&model.Product{},
		&model.Variant{},
		&model.InventoryAdjustment{},
		&model.Review{},
		&model.SizeChart{},
	)
}
