package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/gateway"
	"storefront/internal/infra/mail"
	"storefront/internal/infra/pincode"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logging"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(cfg config.Config) *jwtIssuer {
	//管理画面のアクセストークン
	return &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: cfg.AdminTokenTTL,
	}
}

func (i *jwtIssuer) Issue(subject string, role string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	sizeChartRepo := infraRepo.NewSizeChartGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//外部サービス
	rzp := gateway.NewRazorpayClient(cfg.Razorpay)
	sender := mail.NewSMTPSender(cfg.Mail)
	pins := pincode.NewClient(cfg.Pincode)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	issuer := newJWTIssuer(cfg)

	//Usecase生成
	webhookUC := usecase.NewPaymentWebhookUsecase(txm, sender, cfg.Razorpay.WebhookSecret, cfg.Mail.StoreName, clock, logger)
	checkoutUC := usecase.NewCheckoutUsecase(orderRepo, productRepo, inventoryRepo, rzp, cfg.Razorpay.KeySecret, cfg.Razorpay.Currency, idGen, logger)
	catalogUC := usecase.NewCatalogUsecase(txm, productRepo, inventoryRepo, reviewRepo, sizeChartRepo, clock, logger)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo, clock, logger)
	adminAuditUC := usecase.NewAdminAuditUsecase(auditRepo)
	adminSessionUC := usecase.NewAdminSessionUsecase(cfg.AdminPasscodeHash, usecase.NewBcryptPasswordVerifier(), issuer, clock, logger)

	//Handler生成
	h := server.Handlers{
		Webhook:      handler.NewWebhookHandler(webhookUC),
		Checkout:     handler.NewCheckoutHandler(checkoutUC),
		Pincode:      handler.NewPincodeHandler(pins),
		Product:      handler.NewProductHandler(catalogUC),
		AdminSession: handler.NewAdminSessionHandler(adminSessionUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminProduct: handler.NewAdminProductHandler(catalogUC),
		AdminAudit:   handler.NewAdminAuditHandler(adminAuditUC),
	}

	//Server起動
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := server.New(cfg, logger, h)
	if err := server.Start(ctx, cfg, e, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
