package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
)

type OrderUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	idGen      IDGenerator
	clock      Clock
}

func NewOrderUsecase(
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	idGen IDGenerator,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{orders: orders, orderItems: orderItems, idGen: idGen, clock: clock}
}

// PaymentMeta は支払い方法と（ゲートウェイ決済なら）コールバックの識別子。
type PaymentMeta struct {
	Method           model.PaymentMethod
	GatewayOrderID   string
	GatewayPaymentID string
}

type OrderItemOutput struct {
	ProductID   string `json:"product_id"`
	Quantity    int64  `json:"quantity"`
	PriceAtTime int64  `json:"price_at_time"`
	Size        string `json:"size"`
	Color       string `json:"color"`
}

type OrderOutput struct {
	ID                string                `json:"id"`
	OrderNumber       int64                 `json:"order_number"`
	UserID            string                `json:"user_id"`
	TotalAmount       int64                 `json:"total_amount"`
	ShippingAddress   model.ShippingDetails `json:"shipping_address"`
	Status            string                `json:"status"`
	PaymentMethod     string                `json:"payment_method"`
	PaymentStatus     string                `json:"payment_status"`
	TrackingNumber    *string               `json:"tracking_number,omitempty"`
	EstimatedDelivery *string               `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	Items             []OrderItemOutput     `json:"items"`
}

// PlaceOrder は注文1行＋明細N行を書く。トランザクションではなく
// 「挿入→失敗したら注文を消す」補償方式（ベストエフォート）。
//
//  1. 支払い方法からステータスを決めて Order を挿入
//     cod → pending/unpaid、ゲートウェイ → processing/paid
//  2. 明細を一括挿入。PriceAtTime は渡された明細の単価を凍結（カタログは見ない）
//  3. 明細が書けなかったら注文を削除して全体を失敗させる
//  4. 成功なら採番済みの注文を返す
func (u *OrderUsecase) PlaceOrder(
	ctx context.Context,
	userID string,
	items []model.LineItem,
	shipping model.ShippingDetails,
	totalAmount int64,
	meta PaymentMeta,
) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	// 合計は明細から検算する（ずれた値で注文を書かない）
	var computed int64
	for _, it := range items {
		if it.Quantity < 1 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		computed += it.UnitPrice * it.Quantity
	}
	if computed != totalAmount {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "total mismatch")
	}

	// 同じ paymentID での再送なら既存の注文を返す（注文を二重に作らない）
	if meta.GatewayPaymentID != "" {
		existing, found, err := u.orders.FindByGatewayPaymentID(ctx, meta.GatewayPaymentID)
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			return u.withItems(ctx, existing)
		}
	}

	now := u.clock.Now()

	status := model.OrderStatusPending
	paymentStatus := model.PaymentStatusUnpaid
	if meta.Method == model.PaymentMethodGateway {
		status = model.OrderStatusProcessing
		paymentStatus = model.PaymentStatusPaid
	}

	order := model.Order{
		ID:               u.idGen.NewID(),
		OrderNumber:      orderNumber(now),
		UserID:           userID,
		TotalAmount:      totalAmount,
		ShippingAddress:  shipping,
		Status:           status,
		PaymentMethod:    meta.Method,
		PaymentStatus:    paymentStatus,
		GatewayOrderID:   meta.GatewayOrderID,
		GatewayPaymentID: meta.GatewayPaymentID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := u.orders.Create(ctx, order); err != nil {
		// 一意制約（同じpaymentIDの同時再送）は既存を引き直す
		if meta.GatewayPaymentID != "" {
			ex, found, err2 := u.orders.FindByGatewayPaymentID(ctx, meta.GatewayPaymentID)
			if err2 == nil && found {
				return u.withItems(ctx, ex)
			}
		}
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	orderItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, model.OrderItem{
			OrderID:     order.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			PriceAtTime: it.UnitPrice,
			Size:        it.Size,
			Color:       it.Color,
			CreatedAt:   now,
		})
	}

	if err := u.orderItems.CreateBulk(ctx, order.ID, orderItems); err != nil {
		// 補償削除。消せなかったら孤児行になるのでログに残す。
		if delErr := u.orders.Delete(ctx, order.ID); delErr != nil {
			log.Errorf("order %s: compensating delete failed: %v", order.ID, delErr)
		}
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "order items write failed")
	}

	return toOrderOutput(order, orderItems), nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID string) ([]OrderOutput, error) {
	if userID == "" {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, _, err := u.orders.ListByUserID(ctx, userID, 1, 50)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		out, err := u.withItems(ctx, o)
		if err != nil {
			return []OrderOutput{}, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID string, orderID string) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		//他人の注文は「存在しない扱い」にする
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return u.withItems(ctx, o)
}

// FindByGatewayPaymentID はオーケストレータの二重コールバック検知用。
func (u *OrderUsecase) FindByGatewayPaymentID(ctx context.Context, paymentID string) (OrderOutput, bool, error) {
	o, found, err := u.orders.FindByGatewayPaymentID(ctx, paymentID)
	if err != nil {
		return OrderOutput{}, false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !found {
		return OrderOutput{}, false, nil
	}
	out, err := u.withItems(ctx, o)
	if err != nil {
		return OrderOutput{}, false, err
	}
	return out, true, nil
}

func (u *OrderUsecase) withItems(ctx context.Context, o model.Order) (OrderOutput, error) {
	items, err := u.orderItems.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderOutput(o, items), nil
}

// orderNumber は時刻由来の採番。厳密な連番ではないが単調でぶつかりにくい。
func orderNumber(now time.Time) int64 {
	return now.UnixMilli()*1000 + int64(now.Nanosecond()/1000%1000)
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			PriceAtTime: it.PriceAtTime,
			Size:        it.Size,
			Color:       it.Color,
		})
	}

	return OrderOutput{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		UserID:            o.UserID,
		TotalAmount:       o.TotalAmount,
		ShippingAddress:   o.ShippingAddress,
		Status:            string(o.Status),
		PaymentMethod:     string(o.PaymentMethod),
		PaymentStatus:     string(o.PaymentStatus),
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt,
		Items:             outItems,
	}
}
