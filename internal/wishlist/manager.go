package wishlist

import (
	"context"
	"sync"

	"app/internal/repository"
)

// Manager はユーザーごとの Store を1つだけ持つ。
type Manager struct {
	mu     sync.Mutex
	repo   repository.WishlistRepository
	stores map[string]*Store
}

func NewManager(repo repository.WishlistRepository) *Manager {
	return &Manager{repo: repo, stores: map[string]*Store{}}
}

// ForUser は初回アクセス時にDBから読み込んだ Store を返す。
func (m *Manager) ForUser(ctx context.Context, userID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[userID]; ok {
		return s
	}

	s := NewStore(m.repo, userID)
	s.Initialize(ctx)
	m.stores[userID] = s
	return s
}
