package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"app/internal/domain/model"
	"app/internal/payment"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
)

// WebhookUsecase はゲートウェイからの非同期通知の受け口。
// 生ボディのHMACがヘッダと一致しないイベントは一切信用しない。
type WebhookUsecase struct {
	orders repo.OrderRepository
	secret string
}

func NewWebhookUsecase(orders repo.OrderRepository, webhookSecret string) *WebhookUsecase {
	return &WebhookUsecase{orders: orders, secret: webhookSecret}
}

func (u *WebhookUsecase) Handle(ctx context.Context, body []byte, signature string) error {
	if signature == "" {
		return NewHTTPError(http.StatusBadRequest, "missing signature")
	}
	if !payment.VerifyWebhookSignature(body, signature, u.secret) {
		log.Warnf("webhook: signature mismatch, event discarded")
		return NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	var ev payment.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	gatewayOrderID := ev.Payload.Order.Entity.ID
	if gatewayOrderID == "" {
		gatewayOrderID = ev.Payload.Payment.Entity.OrderID
	}
	if gatewayOrderID == "" {
		return NewHTTPError(http.StatusBadRequest, "missing order reference")
	}

	switch ev.Event {
	case payment.EventPaymentCaptured:
		if err := u.orders.MarkPaymentResult(ctx, gatewayOrderID, model.PaymentStatusPaid, model.OrderStatusConfirmed); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	case payment.EventPaymentFailed:
		if err := u.orders.MarkPaymentResult(ctx, gatewayOrderID, model.PaymentStatusFailed, model.OrderStatusCancelled); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	default:
		// 興味のないイベントは受領だけして捨てる
	}

	return nil
}
