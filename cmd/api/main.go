package main

import (
	"time"

	"app/internal/checkout"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/payment"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/wishlist"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
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

func (i *jwtIssuer) Issue(userID string, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"tv":   tokenVersion,
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
	//.envは無くても動く（本番は環境変数を直接渡す）
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.WishlistEntry{},
		&model.CartRecord{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	cartStorage := infraRepo.NewCartStorageGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: 15 * time.Minute}
	staging := checkout.NewMemoryStagingStore()
	wlManager := wishlist.NewManager(wishlistRepo)
	gateway := payment.NewClient(cfg.RazorpayAPIURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, issuer, idGen, clock)
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartStorage, productRepo)
	wishlistUC := usecase.NewWishlistUsecase(wlManager, cartUC)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo, idGen, clock)
	checkoutUC := usecase.NewCheckoutUsecase(cartStorage, staging, orderUC)
	paymentUC := usecase.NewPaymentUsecase(gateway, cartStorage, staging, orderUC, productRepo, usecase.PaymentConfig{
		KeyID:        cfg.RazorpayKeyID,
		KeySecret:    cfg.RazorpayKeySecret,
		Currency:     cfg.Currency,
		CurrencyRate: cfg.CurrencyRate,
	})
	webhookUC := usecase.NewWebhookUsecase(orderRepo, cfg.RazorpayWebhookSecret)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, orderItemRepo)

	//Handler生成
	h := server.Handlers{
		Auth:       handler.NewAuthHandler(authUC),
		Product:    handler.NewProductHandler(productUC),
		Cart:       handler.NewCartHandler(cartUC),
		Wishlist:   handler.NewWishlistHandler(wishlistUC),
		Checkout:   handler.NewCheckoutHandler(checkoutUC),
		Payment:    handler.NewPaymentHandler(paymentUC),
		Order:      handler.NewOrderHandler(orderUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
		Webhook:    handler.NewWebhookHandler(webhookUC),
	}

	//Server起動
	e := server.New(cfg, userRepo, h)
	if err := server.Start(e, cfg); err != nil {
		panic(err)
	}
}
