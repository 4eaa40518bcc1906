package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 終端ステータスかどうか
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodGateway PaymentMethod = "razorpay"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusFailed PaymentStatus = "failed"
)

type Order struct {
	ID                string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	OrderNumber       int64           `gorm:"not null;uniqueIndex" json:"order_number"`
	UserID            string          `gorm:"type:varchar(64);not null;index" json:"user_id"`
	TotalAmount       int64           `gorm:"not null" json:"total_amount"`
	ShippingAddress   ShippingDetails `gorm:"serializer:json" json:"shipping_address"`
	Status            OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentMethod     PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(20);not null" json:"payment_status"`
	GatewayOrderID    string          `gorm:"type:varchar(128);index" json:"-"`
	GatewayPaymentID  string          `gorm:"type:varchar(128);uniqueIndex:idx_orders_gateway_payment,where:gateway_payment_id <> ''" json:"-"`
	TrackingNumber    *string         `gorm:"type:varchar(128)" json:"tracking_number,omitempty"`
	EstimatedDelivery *string         `gorm:"type:varchar(64)" json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
