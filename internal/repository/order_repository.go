package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) error
	// 補償削除（明細の書き込みに失敗したら注文ごと消す）
	Delete(ctx context.Context, orderID string) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	// 追跡番号とお届け予定を書いて shipped にする
	UpdateShipping(ctx context.Context, orderID string, tracking string, eta string) error

	// 決済コールバックの二重発火検知（同じ paymentID なら既存注文を返す）
	FindByGatewayPaymentID(ctx context.Context, paymentID string) (model.Order, bool, error)
	// webhookからの消し込み（gatewayOrderID で特定）
	MarkPaymentResult(ctx context.Context, gatewayOrderID string, ps model.PaymentStatus, status model.OrderStatus) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
