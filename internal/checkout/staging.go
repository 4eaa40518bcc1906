package checkout

import (
	"sync"

	"app/internal/domain/model"
)

// StagedShipping はフォームと決済ステップの間だけ生きる入力（sessionStorage相当）。
// 注文確定時に Order のスナップショットになり、ここからは破棄される。
type StagedShipping struct {
	model.ShippingDetails
	UserID string
}

type StagingStore interface {
	Put(userID string, s StagedShipping)
	Get(userID string) (StagedShipping, bool)
	Discard(userID string)
}

type memoryStagingStore struct {
	mu sync.Mutex
	m  map[string]StagedShipping
}

func NewMemoryStagingStore() StagingStore {
	return &memoryStagingStore{m: map[string]StagedShipping{}}
}

func (s *memoryStagingStore) Put(userID string, v StagedShipping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = v
}

func (s *memoryStagingStore) Get(userID string) (StagedShipping, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[userID]
	return v, ok
}

func (s *memoryStagingStore) Discard(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}
