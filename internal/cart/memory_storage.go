package cart

import (
	"context"
	"sync"

	"app/internal/domain/model"
)

// MemoryStorage はテスト・ローカル用のインメモリ保存。
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string][]model.LineItem
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: map[string][]model.LineItem{}}
}

func (s *MemoryStorage) Load(ctx context.Context, ownerID string) ([]model.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.m[ownerID]
	out := make([]model.LineItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *MemoryStorage) Save(ctx context.Context, ownerID string, items []model.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]model.LineItem, len(items))
	copy(cp, items)
	s.m[ownerID] = cp
	return nil
}
