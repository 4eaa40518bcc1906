package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID string
}

// 商品の永続化（取得）だけを約束。カタログ管理は対象外。
type ProductRepository interface {
	ListActive(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	// 存在チェック（決済前の検証で使う）
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}
