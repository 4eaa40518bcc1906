package cart

import (
	"context"

	"app/internal/domain/model"
)

// Storage はカートの保存先（localStorage相当）。実装はGORM行とテスト用メモリ。
type Storage interface {
	Load(ctx context.Context, ownerID string) ([]model.LineItem, error)
	Save(ctx context.Context, ownerID string, items []model.LineItem) error
}

// Store は所有者1人分のカート。
// 同一性キー (product_id, size, color) ごとに必ず1行。順序は追加順を保つ。
type Store struct {
	storage Storage
	ownerID string
	items   []model.LineItem
}

func NewStore(storage Storage, ownerID string) *Store {
	return &Store{storage: storage, ownerID: ownerID, items: []model.LineItem{}}
}

// Restore は保存済みのカートを読み直す。
func (s *Store) Restore(ctx context.Context) error {
	items, err := s.storage.Load(ctx, s.ownerID)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// Add は同一キーの明細があれば数量を加算、無ければ末尾に追加する。
func (s *Store) Add(ctx context.Context, item model.LineItem) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	next := make([]model.LineItem, len(s.items))
	copy(next, s.items)

	merged := false
	for i := range next {
		if next[i].Key() == item.Key() {
			next[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, item)
	}

	return s.commit(ctx, next)
}

// Remove はキーに一致する明細を消す。無ければ何もしない。
func (s *Store) Remove(ctx context.Context, key model.LineItemKey) error {
	next := make([]model.LineItem, 0, len(s.items))
	for _, it := range s.items {
		if it.Key() != key {
			next = append(next, it)
		}
	}
	return s.commit(ctx, next)
}

// UpdateQuantity は数量を置き換える。1未満は1に切り上げる。
func (s *Store) UpdateQuantity(ctx context.Context, key model.LineItemKey, qty int64) error {
	if qty < 1 {
		qty = 1
	}

	next := make([]model.LineItem, len(s.items))
	copy(next, s.items)

	for i := range next {
		if next[i].Key() == key {
			next[i].Quantity = qty
		}
	}
	return s.commit(ctx, next)
}

// Clear はカートを空にする。2回呼んでも結果は同じ。
func (s *Store) Clear(ctx context.Context) error {
	return s.commit(ctx, []model.LineItem{})
}

func (s *Store) Items() []model.LineItem {
	out := make([]model.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Subtotal は毎回 Σ(単価×数量) を計算し直す。キャッシュは持たない。
func (s *Store) Subtotal() int64 {
	var total int64
	for _, it := range s.items {
		total += it.UnitPrice * it.Quantity
	}
	return total
}

// Quantity はキーに一致する明細の数量（無ければ0）。
func (s *Store) Quantity(key model.LineItemKey) int64 {
	for _, it := range s.items {
		if it.Key() == key {
			return it.Quantity
		}
	}
	return 0
}

func (s *Store) Len() int {
	return len(s.items)
}

// commit は保存に成功したときだけメモリ側を差し替える。
func (s *Store) commit(ctx context.Context, next []model.LineItem) error {
	if err := s.storage.Save(ctx, s.ownerID, next); err != nil {
		return err
	}
	s.items = next
	return nil
}
