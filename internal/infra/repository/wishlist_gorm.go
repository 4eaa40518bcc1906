package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistGormRepository struct {
	db *gorm.DB
}

func NewWishlistGormRepository(db *gorm.DB) *WishlistGormRepository {
	return &WishlistGormRepository{db: db}
}

func (r *WishlistGormRepository) ListProductIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.WishlistEntry{}).
		Where("user_id = ?", userID).
		Order("id asc").
		Pluck("product_id", &ids).Error
	if err != nil {
		return []string{}, err
	}
	return ids, nil
}

// Add は同じ (user_id, product_id) が既にあっても失敗させない。
func (r *WishlistGormRepository) Add(ctx context.Context, userID string, productID string) error {
	entry := model.WishlistEntry{UserID: userID, ProductID: productID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
}

// Remove は冪等。既に無くてもエラーにしない（キャッシュとDBを収束させる）。
func (r *WishlistGormRepository) Remove(ctx context.Context, userID string, productID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistEntry{}).Error
}
