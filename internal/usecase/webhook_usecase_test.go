package usecase_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/domain/model"
	"app/internal/payment"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const webhookSecret = "whsec_test"

func signedBody(body string) ([]byte, string) {
	b := []byte(body)
	return b, payment.WebhookSignature(b, webhookSecret)
}

func TestWebhookUsecase_MissingSignature(t *testing.T) {
	orders := new(OrderRepoMock)
	uc := usecase.NewWebhookUsecase(orders, webhookSecret)

	err := uc.Handle(context.Background(), []byte(`{}`), "")
	assertErrContains(t, err, "missing signature")
}

func TestWebhookUsecase_InvalidSignatureDiscardsEvent(t *testing.T) {
	orders := new(OrderRepoMock)
	uc := usecase.NewWebhookUsecase(orders, webhookSecret)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"order_id":"order_gw1"}}}}`)

	err := uc.Handle(context.Background(), body, "bad-signature")
	assertErrContains(t, err, "invalid signature")

	orders.AssertNotCalled(t, "MarkPaymentResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookUsecase_CapturedMarksPaidConfirmed(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("MarkPaymentResult", mock.Anything, "order_gw1", model.PaymentStatusPaid, model.OrderStatusConfirmed).Return(nil)

	uc := usecase.NewWebhookUsecase(orders, webhookSecret)

	body, sig := signedBody(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_gw1"}}}}`)
	assert.NoError(t, uc.Handle(context.Background(), body, sig))

	orders.AssertExpectations(t)
}

func TestWebhookUsecase_FailedMarksFailedCancelled(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("MarkPaymentResult", mock.Anything, "order_gw1", model.PaymentStatusFailed, model.OrderStatusCancelled).Return(nil)

	uc := usecase.NewWebhookUsecase(orders, webhookSecret)

	body, sig := signedBody(`{"event":"payment.failed","payload":{"payment":{"entity":{"order_id":"order_gw1"}}}}`)
	assert.NoError(t, uc.Handle(context.Background(), body, sig))

	orders.AssertExpectations(t)
}

func TestWebhookUsecase_OrderEntityIDPreferred(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("MarkPaymentResult", mock.Anything, "order_from_order", model.PaymentStatusPaid, model.OrderStatusConfirmed).Return(nil)

	uc := usecase.NewWebhookUsecase(orders, webhookSecret)

	body, sig := signedBody(`{"event":"payment.captured","payload":{"order":{"entity":{"id":"order_from_order"}},"payment":{"entity":{"order_id":"order_from_payment"}}}}`)
	assert.NoError(t, uc.Handle(context.Background(), body, sig))

	orders.AssertExpectations(t)
}

func TestWebhookUsecase_UnknownEventIsAcceptedAndDropped(t *testing.T) {
	orders := new(OrderRepoMock)
	uc := usecase.NewWebhookUsecase(orders, webhookSecret)

	body, sig := signedBody(`{"event":"refund.created","payload":{"payment":{"entity":{"order_id":"order_gw1"}}}}`)
	assert.NoError(t, uc.Handle(context.Background(), body, sig))

	orders.AssertNotCalled(t, "MarkPaymentResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookUsecase_MissingOrderReference(t *testing.T) {
	uc := usecase.NewWebhookUsecase(new(OrderRepoMock), webhookSecret)

	body, sig := signedBody(`{"event":"payment.captured","payload":{}}`)
	err := uc.Handle(context.Background(), body, sig)
	assertErrContains(t, err, "missing order reference")
}

func TestWebhookUsecase_DBError(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("MarkPaymentResult", mock.Anything, "order_gw1", model.PaymentStatusPaid, model.OrderStatusConfirmed).Return(errors.New("db down"))

	uc := usecase.NewWebhookUsecase(orders, webhookSecret)

	body, sig := signedBody(`{"event":"payment.captured","payload":{"payment":{"entity":{"order_id":"order_gw1"}}}}`)
	err := uc.Handle(context.Background(), body, sig)
	assertErrContains(t, err, "db error")
}
