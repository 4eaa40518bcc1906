package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	//ヘルスチェック
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	//公開
	h.Product.RegisterRoutes(e)
	h.Webhook.RegisterRoutes(e)

	//認証あり（/auth は register/login だけ公開）
	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.Cart.RegisterRoutes(e, cfg, userRepo)
	h.Wishlist.RegisterRoutes(e, cfg, userRepo)
	h.Checkout.RegisterRoutes(e, cfg, userRepo)
	h.Payment.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)

	//ADMINのみ
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
}
