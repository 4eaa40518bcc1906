package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         int64          `gorm:"not null" json:"price"`
	CategoryID    string         `gorm:"type:varchar(64);index" json:"category_id"`
	SizeAvailable []string       `gorm:"serializer:json" json:"size_available"`
	Colors        []string       `gorm:"serializer:json" json:"colors"`
	ImageURL      string         `gorm:"type:varchar(512)" json:"image_url"`
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
