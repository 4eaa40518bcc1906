package repository

import (
	"context"
	"encoding/json"
	"errors"

	"app/internal/cart"
	"app/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartStorageGorm はカートのJSONスナップショットを所有者ごとに1行で持つ。
// cart.Storage の実装（localStorage相当の永続化）。
type CartStorageGorm struct {
	db *gorm.DB
}

func NewCartStorageGorm(db *gorm.DB) cart.Storage {
	return &CartStorageGorm{db: db}
}

func (s *CartStorageGorm) Load(ctx context.Context, ownerID string) ([]model.LineItem, error) {
	var rec model.CartRecord
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []model.LineItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []model.LineItem
	if len(rec.Payload) == 0 {
		return []model.LineItem{}, nil
	}
	if err := json.Unmarshal(rec.Payload, &items); err != nil {
		// 形が壊れた行は空カート扱い（境界でparseして信用しない）
		return []model.LineItem{}, nil
	}
	return items, nil
}

func (s *CartStorageGorm) Save(ctx context.Context, ownerID string, items []model.LineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}

	rec := model.CartRecord{OwnerID: ownerID, Payload: payload}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&rec).Error
}
