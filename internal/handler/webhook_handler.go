package handler

import (
	"io"
	"net/http"

	"app/internal/payment"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /webhooks/razorpayのHTTP。認証ミドルウェアは通さず、
// 生ボディのHMAC署名だけで信頼を判断する。
type WebhookHandler struct {
	uc *usecase.WebhookUsecase
}

// DI
func NewWebhookHandler(uc *usecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

// /webhooks/razorpay を登録
func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhooks/razorpay", h.receive)
}

func (h *WebhookHandler) receive(c echo.Context) error {
	// 署名は生ボディに対して計算されるので、Bindせずに読む
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sig := c.Request().Header.Get(payment.WebhookSignatureHeader)
	if err := h.uc.Handle(c.Request().Context(), body, sig); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}
