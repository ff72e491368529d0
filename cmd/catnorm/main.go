// catnorm は商品名からカテゴリを付け直すバッチ。
package main

import (
	"context"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logging"
	"storefront/internal/usecase"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	catalogUC := usecase.NewCatalogUsecase(
		infraRepo.NewTxManagerGorm(gormDB),
		infraRepo.NewProductGormRepository(gormDB),
		infraRepo.NewInventoryGormRepository(gormDB),
		infraRepo.NewReviewGormRepository(gormDB),
		infraRepo.NewSizeChartGormRepository(gormDB),
		&realClock{},
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	changes, err := catalogUC.NormalizeCategories(ctx, model.ActorJob)
	if err != nil {
		logger.Error("normalize categories failed", "error", err)
		os.Exit(1)
	}

	for _, c := range changes {
		logger.Info("category updated", "product_id", c.ProductID, "name", c.Name, "from", c.From, "to", c.To)
	}
	logger.Info("normalize categories done", "changed", len(changes))
}
