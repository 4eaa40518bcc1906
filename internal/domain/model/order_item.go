package model

import "time"

// 購入時点の明細スナップショット。作成後は更新しない。
// PriceAtTime は確定時の単価を凍結した値で、カタログから再計算してはいけない。
type OrderItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     string    `gorm:"type:varchar(64);not null;index" json:"order_id"`
	ProductID   string    `gorm:"type:varchar(64);not null;index" json:"product_id"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	PriceAtTime int64     `gorm:"not null" json:"price_at_time"`
	Size        string    `gorm:"type:varchar(16)" json:"size"`
	Color       string    `gorm:"type:varchar(32)" json:"color"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
