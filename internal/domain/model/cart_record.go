package model

import "time"

// カートの永続化スナップショット（所有者ごとに1行）。
// 中身は LineItem の JSON 配列。
type CartRecord struct {
	OwnerID   string    `gorm:"type:varchar(64);primaryKey" json:"owner_id"`
	Payload   []byte    `gorm:"type:jsonb" json:"-"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
